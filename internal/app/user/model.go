package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

type User struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-" gorm:"not null"`
	FirstName string `json:"first_name" gorm:"column:first_name"`
	LastName  string `json:"last_name" gorm:"column:last_name"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role" gorm:"not null;default:'user'"`
	IsActive  bool   `json:"is_active" gorm:"column:is_active;not null;default:true"`
	Extension *int   `json:"extension,omitempty"`

	LastLogin *time.Time `json:"last_login,omitempty" gorm:"column:last_login"`

	TemporaryPassword          *string    `json:"-" gorm:"column:temporary_password"`
	TemporaryPasswordExpiresAt *time.Time `json:"-" gorm:"column:temporary_password_expires_at"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=50"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role" binding:"omitempty,oneof=admin editor user"`
	Extension *int   `json:"extension"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6,max=50"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Avatar    *string `json:"avatar"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin editor user"`
	IsActive  *bool   `json:"is_active"`
	Extension *int    `json:"extension"`
}

type ListQuery struct {
	Limit       int
	Offset      int
	SearchInput string
	SortField   string
	SortOrder   string
}

type ListResponse struct {
	Data      []*User `json:"data"`
	TotalRows int64   `json:"totalRows"`
}
