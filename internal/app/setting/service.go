package setting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/app/audit"
)

const singletonID = 1

type Service interface {
	Get(ctx context.Context) (*Setting, error)
	Update(ctx context.Context, actorID string, req UpdateSettingRequest) (*Setting, error)
}

type service struct {
	db       *gorm.DB
	recorder audit.Recorder
	logger   *zap.SugaredLogger
}

func NewService(db *gorm.DB, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{
		db:       db,
		recorder: recorder,
		logger:   logger.Sugar(),
	}
}

func (s *service) Get(ctx context.Context) (*Setting, error) {
	var row Setting
	err := s.db.WithContext(ctx).Where("id = ?", singletonID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = Setting{ID: singletonID, IsActive: true}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to create settings row: %w", err)
		}
		return &row, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &row, nil
}

func (s *service) Update(ctx context.Context, actorID string, req UpdateSettingRequest) (*Setting, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	previous := *row
	if req.CompanyName != nil {
		row.CompanyName = req.CompanyName
	}
	if req.SupportEmail != nil {
		row.SupportEmail = req.SupportEmail
	}
	if req.SupportPhone != nil {
		row.SupportPhone = req.SupportPhone
	}
	if req.Logo != nil {
		row.Logo = req.Logo
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.recorder.Record(ctx, actorID, "PATCH", "/api/settings", audit.Snapshot{
		EntityID: fmt.Sprint(row.ID),
		Previous: previous,
		Current:  row,
	})
	return row, nil
}
