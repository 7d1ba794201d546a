package hora

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/user"
	"horas-backend/internal/utils"
)

// EventHorasChanged is published after any write to a user's hours so
// the socket gateway can re-push that user's weekly notifications.
const EventHorasChanged = "horas-changed"

// MembershipChecker gates hour-logging on an active project
// membership for the entry's owner.
type MembershipChecker interface {
	AssertMember(ctx context.Context, userID, proyectoID string) error
}

// UserDirectory lists users for the full-company export, so people
// with no entries in the range still get an empty sheet.
type UserDirectory interface {
	ListAll(ctx context.Context) ([]*user.User, error)
}

type Service interface {
	Create(ctx context.Context, actorID, actorRole string, req CreateHoraRequest) (*Hora, error)
	MisHoras(ctx context.Context, actorID, actorRole string, q ListQuery) ([]*Hora, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateHoraRequest) (*Hora, error)
	Delete(ctx context.Context, actorID, actorRole, id string) error
	MisNotificaciones(ctx context.Context, userID string) (*NotificationsResponse, error)
	ExportExcel(ctx context.Context, actorID, actorRole string, q ExportQuery) (*ExportFile, error)
}

type ExportQuery struct {
	Desde  string
	Hasta  string
	UserID string
	Theme  string
}

type service struct {
	repo          Repository
	memberships   MembershipChecker
	users         UserDirectory
	recorder      audit.Recorder
	bus           *utils.EventBus
	logger        *zap.SugaredLogger
	targetMinutes int
	now           func() time.Time
}

func NewService(
	repo Repository,
	memberships MembershipChecker,
	users UserDirectory,
	recorder audit.Recorder,
	bus *utils.EventBus,
	logger *zap.Logger,
	targetMinutes int,
) Service {
	return &service{
		repo:          repo,
		memberships:   memberships,
		users:         users,
		recorder:      recorder,
		bus:           bus,
		logger:        logger.Sugar(),
		targetMinutes: targetMinutes,
		now:           time.Now,
	}
}

func (s *service) Create(ctx context.Context, actorID, actorRole string, req CreateHoraRequest) (*Hora, error) {
	targetUserID := actorID
	if actorRole == user.RoleAdmin && req.UserID != "" {
		targetUserID = req.UserID
	}

	if _, err := time.Parse(dateLayout, req.Fecha); err != nil {
		return nil, apperr.Validation("fecha inválida, se espera YYYY-MM-DD")
	}

	if err := s.memberships.AssertMember(ctx, targetUserID, req.ProyectoID); err != nil {
		return nil, err
	}

	h := &Hora{
		UserID:      targetUserID,
		ProyectoID:  req.ProyectoID,
		Fecha:       req.Fecha,
		Minutos:     req.Minutos,
		Descripcion: trimPtr(req.Descripcion),
	}
	if err := s.repo.Create(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("ya existe una carga para ese día en ese proyecto")
		}
		s.logger.Errorw("failed to create hora", "userId", targetUserID, "error", err)
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "POST", "/api/horas", audit.Snapshot{
		EntityID: h.ID,
		Current:  h,
	})
	s.publishChanged(h.UserID)
	return h, nil
}

func (s *service) MisHoras(ctx context.Context, actorID, actorRole string, q ListQuery) ([]*Hora, error) {
	if actorRole != user.RoleAdmin || q.UserID == "" {
		q.UserID = actorID
	}
	return s.repo.ListByUser(ctx, q)
}

func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateHoraRequest) (*Hora, error) {
	h, err := s.repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("hora no encontrada")
		}
		return nil, fmt.Errorf("failed to load hora: %w", err)
	}

	if actorRole != user.RoleAdmin && h.UserID != actorID {
		return nil, apperr.Forbidden("no podés editar horas de otro usuario")
	}

	// Moving the entry to another project requires the owner to be an
	// active member of the new project.
	if req.ProyectoID != nil && *req.ProyectoID != h.ProyectoID {
		if err := s.memberships.AssertMember(ctx, h.UserID, *req.ProyectoID); err != nil {
			return nil, err
		}
	}

	previous := *h
	if req.ProyectoID != nil {
		h.ProyectoID = *req.ProyectoID
	}
	if req.Fecha != nil {
		if _, err := time.Parse(dateLayout, *req.Fecha); err != nil {
			return nil, apperr.Validation("fecha inválida, se espera YYYY-MM-DD")
		}
		h.Fecha = *req.Fecha
	}
	if req.Minutos != nil {
		h.Minutos = *req.Minutos
	}
	if req.Descripcion != nil {
		h.Descripcion = trimPtr(req.Descripcion)
	}

	if err := s.repo.Save(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("ya existe una carga para ese día en ese proyecto")
		}
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "PATCH", "/api/horas/"+id, audit.Snapshot{
		EntityID: h.ID,
		Previous: previous,
		Current:  h,
	})
	s.publishChanged(h.UserID)
	return h, nil
}

func (s *service) Delete(ctx context.Context, actorID, actorRole, id string) error {
	h, err := s.repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("hora no encontrada")
		}
		return fmt.Errorf("failed to load hora: %w", err)
	}

	if actorRole != user.RoleAdmin && h.UserID != actorID {
		return apperr.Forbidden("no podés borrar horas de otro usuario")
	}

	if err := s.repo.Delete(ctx, h); err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, "DELETE", "/api/horas/"+id, audit.Snapshot{
		EntityID: h.ID,
		Previous: h,
	})
	s.publishChanged(h.UserID)
	return nil
}

// MisNotificaciones recomputes the weekly summary from scratch on
// every call. The window is at most five day buckets.
func (s *service) MisNotificaciones(ctx context.Context, userID string) (*NotificationsResponse, error) {
	desde, hasta, weekend := weekWindow(s.now())

	byDate, err := s.repo.SumMinutesByDate(ctx, userID, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := buildNotifications(desde, hasta, weekend, byDate, s.targetMinutes)
	return &resp, nil
}

func (s *service) publishChanged(userID string) {
	s.bus.Publish(EventHorasChanged, userID)
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
