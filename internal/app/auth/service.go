package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/menuitem"
	"horas-backend/internal/app/user"
	"horas-backend/internal/utils"
)

const (
	temporaryPasswordLength = 8
	temporaryPasswordTTL    = time.Hour
)

// MenuProvider resolves the menu entries visible to a role.
type MenuProvider interface {
	ByRole(ctx context.Context, role string) ([]*menuitem.MenuItem, error)
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginOutcome, error)
	CheckStatus(ctx context.Context, userID string) (*AuthPayload, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

type service struct {
	users    user.Repository
	menus    MenuProvider
	recorder audit.Recorder
	logger   *zap.SugaredLogger
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(
	users user.Repository,
	menus MenuProvider,
	recorder audit.Recorder,
	logger *zap.Logger,
	secret string,
	tokenTTL time.Duration,
) Service {
	return &service{
		users:    users,
		menus:    menus,
		recorder: recorder,
		logger:   logger.Sugar(),
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginOutcome, error) {
	u, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("usuario no encontrado")
		}
		return nil, fmt.Errorf("failed to load user for login: %w", err)
	}

	if !u.IsActive {
		return nil, apperr.Unauthorized("el usuario está inactivo")
	}

	if u.Password != "" {
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) == nil {
			return s.loginSucceeded(ctx, u)
		}
	}

	if s.temporaryPasswordMatches(u, req.Password) {
		s.recorder.Record(ctx, u.ID, "POST", "/api/auth/login", audit.Snapshot{
			EntityID: u.ID,
			Current:  u,
		})
		return &LoginOutcome{Challenge: &TemporaryPasswordChallenge{
			Status:  "TEMPORARY_PASSWORD",
			Message: "Debes cambiar tu contraseña temporal.",
			UserID:  u.ID,
		}}, nil
	}

	return nil, apperr.Unauthorized("credenciales inválidas")
}

func (s *service) loginSucceeded(ctx context.Context, u *user.User) (*LoginOutcome, error) {
	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.logger.Warnw("failed to update last login", "userId", u.ID, "error", err)
	}

	payload, err := s.sessionPayload(ctx, u)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, u.ID, "POST", "/api/auth/login", audit.Snapshot{
		EntityID: u.ID,
		Current:  u,
	})
	return &LoginOutcome{Auth: payload}, nil
}

func (s *service) temporaryPasswordMatches(u *user.User, password string) bool {
	if u.TemporaryPassword == nil || u.TemporaryPasswordExpiresAt == nil {
		return false
	}
	if u.TemporaryPasswordExpiresAt.Before(s.now()) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.TemporaryPassword), []byte(password)) == nil
}

func (s *service) CheckStatus(ctx context.Context, userID string) (*AuthPayload, error) {
	u, err := s.users.ActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("usuario no encontrado")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.sessionPayload(ctx, u)
}

func (s *service) sessionPayload(ctx context.Context, u *user.User) (*AuthPayload, error) {
	token, err := utils.NewAccessToken(s.secret, u.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	menuItems, err := s.menus.ByRole(ctx, u.Role)
	if err != nil {
		s.logger.Warnw("failed to load menu items", "role", u.Role, "error", err)
		menuItems = nil
	}

	return &AuthPayload{
		User:        u,
		AccessToken: token,
		MenuItems:   menuItems,
	}, nil
}

// ResetPassword issues a short-lived temporary password. Delivery is
// out of band; the generated value is only written to the server log.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("usuario no encontrado")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	plain, err := generateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash temporary password: %w", err)
	}

	expiresAt := s.now().Add(temporaryPasswordTTL)
	if err := s.users.SetTemporaryPassword(ctx, u.ID, string(hash), expiresAt); err != nil {
		return err
	}

	s.logger.Infow("temporary password issued",
		"userId", u.ID,
		"email", u.Email,
		"temporaryPassword", plain,
		"expiresAt", expiresAt,
	)
	s.recorder.Record(ctx, u.ID, "POST", "/api/auth/reset-password", audit.Snapshot{
		EntityID: u.ID,
	})
	return nil
}

// ChangePassword replaces the permanent password. Only valid while an
// unexpired temporary password exists for the user.
func (s *service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	u, err := s.users.ByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("usuario no encontrado")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if u.TemporaryPassword == nil || u.TemporaryPasswordExpiresAt == nil {
		return apperr.Validation("no hay una contraseña temporal activa")
	}
	if u.TemporaryPasswordExpiresAt.Before(s.now()) {
		return apperr.Validation("la contraseña temporal ha expirado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}

	s.recorder.Record(ctx, u.ID, "POST", "/api/auth/change-password", audit.Snapshot{
		EntityID: u.ID,
	})
	return nil
}

// temporaryPasswordAlphabet omits look-alike characters (0/O, 1/l/I).
const temporaryPasswordAlphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

func generateTemporaryPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(temporaryPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = temporaryPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
