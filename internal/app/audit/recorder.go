package audit

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
)

// Recorder persists audit entries. Recording is best effort: a failure is
// logged and swallowed so it never breaks the mutation that already
// succeeded.
type Recorder interface {
	Record(ctx context.Context, actorID, method, resource string, snap Snapshot)
}

type Service interface {
	Recorder
	List(ctx context.Context, q ListQuery) (*ListResponse, error)
	ByID(ctx context.Context, id string) (*AuditLog, error)
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Sugar(),
	}
}

func (s *service) Record(ctx context.Context, actorID, method, resource string, snap Snapshot) {
	entry := &AuditLog{
		Method:         method,
		Resource:       resource,
		EntityID:       snap.EntityID,
		PreviousEntity: marshalSnapshot(snap.Previous),
		CurrentEntity:  marshalSnapshot(snap.Current),
	}
	if actorID != "" {
		entry.UserID = &actorID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warnw("Audit log skipped", "method", method, "resource", resource, "error", err)
	}
}

func marshalSnapshot(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	entries, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Data: entries, TotalRows: total}, nil
}

func (s *service) ByID(ctx context.Context, id string) (*AuditLog, error) {
	entry, err := s.repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("registro de auditoría no encontrado")
	}
	return entry, err
}
