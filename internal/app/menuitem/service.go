package menuitem

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	redisprovider "horas-backend/internal/providers/redis"
)

const (
	menuCacheKeyPrefix = "menu:role:"
	menuCacheTTL       = 5 * time.Minute
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateMenuItemRequest) (*MenuItem, error)
	List(ctx context.Context) ([]*MenuItem, error)
	ByID(ctx context.Context, id string) (*MenuItem, error)
	ByRole(ctx context.Context, role string) ([]*MenuItem, error)
	Update(ctx context.Context, actorID, id string, req UpdateMenuItemRequest) (*MenuItem, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	repo     Repository
	cache    *redisprovider.RedisProvider
	recorder audit.Recorder
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, cache *redisprovider.RedisProvider, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		cache:    cache,
		recorder: recorder,
		logger:   logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateMenuItemRequest) (*MenuItem, error) {
	m := &MenuItem{
		Label:      req.Label,
		Icon:       req.Icon,
		RouterLink: req.RouterLink,
		Priority:   1,
		Roles:      []string{"user"},
		IsActive:   true,
	}
	if req.Priority != nil {
		m.Priority = *req.Priority
	}
	if len(req.Roles) > 0 {
		m.Roles = req.Roles
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.invalidateRoleCache(ctx)
	s.recorder.Record(ctx, actorID, "POST", "/api/menu-items", audit.Snapshot{
		EntityID: m.ID,
		Current:  m,
	})
	return m, nil
}

func (s *service) List(ctx context.Context) ([]*MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *service) ByID(ctx context.Context, id string) (*MenuItem, error) {
	m, err := s.repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item de menú no encontrado")
		}
		return nil, err
	}
	return m, nil
}

func (s *service) ByRole(ctx context.Context, role string) ([]*MenuItem, error) {
	if cached := s.roleFromCache(ctx, role); cached != nil {
		return cached, nil
	}

	items, err := s.repo.ByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	s.storeRoleCache(ctx, role, items)
	return items, nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateMenuItemRequest) (*MenuItem, error) {
	m, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := *m
	if req.Label != nil {
		m.Label = *req.Label
	}
	if req.Icon != nil {
		m.Icon = req.Icon
	}
	if req.RouterLink != nil {
		m.RouterLink = req.RouterLink
	}
	if req.Priority != nil {
		m.Priority = *req.Priority
	}
	if len(req.Roles) > 0 {
		m.Roles = req.Roles
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.invalidateRoleCache(ctx)
	s.recorder.Record(ctx, actorID, "PATCH", "/api/menu-items/"+id, audit.Snapshot{
		EntityID: m.ID,
		Previous: previous,
		Current:  m,
	})
	return m, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	m, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.invalidateRoleCache(ctx)
	s.recorder.Record(ctx, actorID, "DELETE", "/api/menu-items/"+id, audit.Snapshot{
		EntityID: m.ID,
		Previous: m,
	})
	return nil
}

func (s *service) roleFromCache(ctx context.Context, role string) []*MenuItem {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, menuCacheKeyPrefix+role).Result()
	if err != nil {
		return nil
	}
	var items []*MenuItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func (s *service) storeRoleCache(ctx context.Context, role string, items []*MenuItem) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.SetEX(ctx, menuCacheKeyPrefix+role, raw, menuCacheTTL).Err(); err != nil {
		s.logger.Warnw("failed to cache menu items", "role", role, "error", err)
	}
}

func (s *service) invalidateRoleCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.DelByPattern(ctx, menuCacheKeyPrefix+"*")
}
