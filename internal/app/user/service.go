package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/middleware"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateUserRequest) (*User, error)
	List(ctx context.Context, q ListQuery) (*ListResponse, error)
	ListAll(ctx context.Context) ([]*User, error)
	ByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, actorID, id string, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, actorID, id string) error

	// LoadIdentity implements middleware.IdentityLoader.
	LoadIdentity(ctx context.Context, userID string) (*middleware.Identity, error)
}

type service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	u := &User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hash),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Avatar:    req.Avatar,
		Role:      role,
		IsActive:  true,
		Extension: req.Extension,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("ya existe un usuario con ese email")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.recorder.Record(ctx, actorID, "POST", "/api/users", audit.Snapshot{
		EntityID: u.ID,
		Current:  u,
	})
	return u, nil
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &ListResponse{Data: users, TotalRows: total}, nil
}

func (s *service) ListAll(ctx context.Context) ([]*User, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("usuario no encontrado")
	}
	return u, err
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateUserRequest) (*User, error) {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *u

	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hash)
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Extension != nil {
		u.Extension = req.Extension
	}

	if err := s.repo.Save(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("ya existe un usuario con ese email")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.recorder.Record(ctx, actorID, "PATCH", "/api/users/"+id, audit.Snapshot{
		EntityID: u.ID,
		Previous: &previous,
		Current:  u,
	})
	return u, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.recorder.Record(ctx, actorID, "DELETE", "/api/users/"+id, audit.Snapshot{
		EntityID: id,
		Previous: u,
	})
	return nil
}

func (s *service) LoadIdentity(ctx context.Context, userID string) (*middleware.Identity, error) {
	u, err := s.repo.ActiveByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usuario no autorizado: %w", err)
	}
	return &middleware.Identity{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}, nil
}
