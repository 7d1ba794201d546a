package hora

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hora is a single time entry: minutes logged by a user against a
// project on a calendar date. Entries are immutable rows keyed by
// (user, project, fecha); a second load for the same day conflicts.
type Hora struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string  `gorm:"type:uuid;not null;uniqueIndex:idx_hora_user_proyecto_fecha;index" json:"userId"`
	ProyectoID  string  `gorm:"type:uuid;not null;uniqueIndex:idx_hora_user_proyecto_fecha;index" json:"proyectoId"`
	Fecha       string  `gorm:"type:date;not null;uniqueIndex:idx_hora_user_proyecto_fecha;index" json:"fecha"`
	Minutos     int     `gorm:"not null" json:"minutos"`
	Descripcion *string `gorm:"type:text" json:"descripcion"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Hora) TableName() string {
	return "horas"
}

func (h *Hora) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

type CreateHoraRequest struct {
	// UserID is honored only when the caller is an admin loading
	// hours on another user's behalf.
	UserID      string  `json:"userId"`
	ProyectoID  string  `json:"proyectoId" binding:"required,uuid"`
	Fecha       string  `json:"fecha" binding:"required"`
	Minutos     int     `json:"minutos" binding:"required,min=1,max=1440"`
	Descripcion *string `json:"descripcion"`
}

type UpdateHoraRequest struct {
	ProyectoID  *string `json:"proyectoId" binding:"omitempty,uuid"`
	Fecha       *string `json:"fecha"`
	Minutos     *int    `json:"minutos" binding:"omitempty,min=1,max=1440"`
	Descripcion *string `json:"descripcion"`
}

type ListQuery struct {
	UserID string
	Desde  string
	Hasta  string
}

// ExportRow is one hours entry joined with its owner and project,
// flattened for the Excel workbook.
type ExportRow struct {
	ID             string  `json:"id"`
	Fecha          string  `json:"fecha"`
	Minutos        int     `json:"minutos"`
	Descripcion    *string `json:"descripcion"`
	UserID         string  `json:"userId"`
	Email          string  `json:"email"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProyectoID     string  `json:"proyectoId"`
	ProyectoNombre string  `json:"proyectoNombre"`
}
