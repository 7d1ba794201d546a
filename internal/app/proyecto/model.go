package proyecto

import (
	"time"

	"gorm.io/gorm"

	"horas-backend/internal/app/user"
)

const (
	RolDev  = "dev"
	RolLead = "lead"
	RolQA   = "qa"
)

type Proyecto struct {
	ID          string  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string  `json:"nombre" gorm:"not null"`
	Descripcion *string `json:"descripcion"`
	IsActive    bool    `json:"is_active" gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Proyecto) TableName() string {
	return "proyectos"
}

// ProyectoMiembro authorizes a user to log hours against a project while
// is_active is true. Deactivation never deletes the row.
type ProyectoMiembro struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     string `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_miembro_user_proyecto"`
	ProyectoID string `json:"proyectoId" gorm:"type:uuid;not null;uniqueIndex:idx_miembro_user_proyecto"`
	Rol        string `json:"rol" gorm:"not null;default:'dev'"`
	IsActive   bool   `json:"is_active" gorm:"column:is_active;not null;default:true"`

	User     *user.User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Proyecto *Proyecto  `json:"proyecto,omitempty" gorm:"foreignKey:ProyectoID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProyectoMiembro) TableName() string {
	return "proyectos_miembros"
}

type CreateProyectoRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Descripcion *string `json:"descripcion"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateProyectoRequest struct {
	Nombre      *string `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	IsActive    *bool   `json:"is_active"`
}

type AsignarUsuarioRequest struct {
	UserID   string  `json:"userId" binding:"required,uuid"`
	Rol      *string `json:"rol" binding:"omitempty,oneof=dev lead qa"`
	IsActive *bool   `json:"is_active"`
}

type ListQuery struct {
	Limit       int
	Offset      int
	SearchInput string
}

// ProyectoListItem is a project row plus its active member count, as shown
// in the admin listing.
type ProyectoListItem struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Descripcion   *string   `json:"descripcion"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"createdAt"`
	MiembrosCount int64     `json:"miembrosCount"`
}

type ListResponse struct {
	Data      []*ProyectoListItem `json:"data"`
	TotalRows int64               `json:"totalRows"`
}

// MiembroView is a membership joined with its user summary.
type MiembroView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ProyectoID string    `json:"proyectoId"`
	Rol        string    `json:"rol"`
	IsActive   bool      `json:"is_active"`
	AssignedAt time.Time `json:"assignedAt"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	SystemRole string    `json:"systemRole"`
}

// MisProyectoView is one row of a user's own project list.
type MisProyectoView struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	IsActive    bool    `json:"is_active"`
	Rol         string  `json:"rol"`
}
