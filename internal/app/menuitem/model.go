package menuitem

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MenuItem is a navigation entry shown to every role listed in Roles.
type MenuItem struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Label      string         `gorm:"type:text;not null" json:"label"`
	Icon       *string        `gorm:"type:text" json:"icon"`
	RouterLink *string        `gorm:"type:text" json:"routerLink"`
	Priority   int            `gorm:"default:1" json:"priority"`
	Roles      pq.StringArray `gorm:"type:text[];default:'{user}'" json:"roles"`
	IsActive   bool           `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type CreateMenuItemRequest struct {
	Label      string   `json:"label" binding:"required"`
	Icon       *string  `json:"icon"`
	RouterLink *string  `json:"routerLink"`
	Priority   *int     `json:"priority" binding:"omitempty,min=1"`
	Roles      []string `json:"roles" binding:"omitempty,dive,oneof=admin editor user"`
	IsActive   *bool    `json:"isActive"`
}

type UpdateMenuItemRequest struct {
	Label      *string  `json:"label"`
	Icon       *string  `json:"icon"`
	RouterLink *string  `json:"routerLink"`
	Priority   *int     `json:"priority" binding:"omitempty,min=1"`
	Roles      []string `json:"roles" binding:"omitempty,dive,oneof=admin editor user"`
	IsActive   *bool    `json:"isActive"`
}
