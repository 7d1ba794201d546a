package auth

import (
	"horas-backend/internal/app/menuitem"
	"horas-backend/internal/app/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangePasswordRequest struct {
	UserID      string `json:"userId" binding:"required,uuid"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=50"`
}

// AuthPayload is the logged-in session: the user, a fresh token and
// the menu entries the user's role can see.
type AuthPayload struct {
	User        *user.User           `json:"user"`
	AccessToken string               `json:"access_token"`
	MenuItems   []*menuitem.MenuItem `json:"menuItems"`
}

// TemporaryPasswordChallenge is returned instead of a session when the
// caller authenticated with a temporary password and must replace it.
type TemporaryPasswordChallenge struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// LoginOutcome carries exactly one of its two branches.
type LoginOutcome struct {
	Auth      *AuthPayload
	Challenge *TemporaryPasswordChallenge
}
