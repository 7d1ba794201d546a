package setting

import (
	"time"
)

// Setting is a singleton row: the service always reads and writes the
// record with ID 1, creating it on first access.
type Setting struct {
	ID           int     `gorm:"primaryKey" json:"id"`
	CompanyName  *string `gorm:"type:text" json:"companyName"`
	SupportEmail *string `gorm:"type:text" json:"supportEmail"`
	SupportPhone *string `gorm:"type:text" json:"supportPhone"`
	Logo         *string `gorm:"type:text" json:"logo"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}

type UpdateSettingRequest struct {
	CompanyName  *string `json:"companyName"`
	SupportEmail *string `json:"supportEmail" binding:"omitempty,email"`
	SupportPhone *string `json:"supportPhone"`
	Logo         *string `json:"logo"`
	IsActive     *bool   `json:"isActive"`
}
