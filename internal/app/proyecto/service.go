package proyecto

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/user"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateProyectoRequest) (*Proyecto, error)
	ByID(ctx context.Context, id string) (*Proyecto, error)
	Update(ctx context.Context, actorID, id string, req UpdateProyectoRequest) (*Proyecto, error)
	Delete(ctx context.Context, actorID, id string) error
	List(ctx context.Context, callerID, callerRole string, q ListQuery) (*ListResponse, error)

	AsignarUsuario(ctx context.Context, actorID, proyectoID string, req AsignarUsuarioRequest) (*ProyectoMiembro, error)
	DesasignarUsuario(ctx context.Context, actorID, proyectoID, userID string) error
	Miembros(ctx context.Context, proyectoID string) ([]*MiembroView, error)
	MisProyectos(ctx context.Context, userID string) ([]*MisProyectoView, error)

	// AssertMember fails with an authorization error unless an active
	// membership links the user to the project.
	AssertMember(ctx context.Context, userID, proyectoID string) error
}

type service struct {
	repo     Repository
	users    user.Repository
	recorder audit.Recorder
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, users user.Repository, recorder audit.Recorder, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		recorder: recorder,
		logger:   logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateProyectoRequest) (*Proyecto, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, apperr.Validation("nombre requerido")
	}

	p := &Proyecto{
		Nombre:      nombre,
		Descripcion: trimPtr(req.Descripcion),
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create proyecto: %w", err)
	}

	s.recorder.Record(ctx, actorID, "POST", "/api/proyectos", audit.Snapshot{
		EntityID: p.ID,
		Current:  p,
	})
	return p, nil
}

func (s *service) ByID(ctx context.Context, id string) (*Proyecto, error) {
	p, err := s.repo.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("proyecto no encontrado")
	}
	return p, err
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateProyectoRequest) (*Proyecto, error) {
	p, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *p

	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if nombre == "" {
			return nil, apperr.Validation("nombre no puede ser vacío")
		}
		p.Nombre = nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = trimPtr(req.Descripcion)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update proyecto: %w", err)
	}

	s.recorder.Record(ctx, actorID, "PATCH", "/api/proyectos/"+id, audit.Snapshot{
		EntityID: p.ID,
		Previous: &previous,
		Current:  p,
	})
	return p, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	p, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete proyecto: %w", err)
	}

	s.recorder.Record(ctx, actorID, "DELETE", "/api/proyectos/"+id, audit.Snapshot{
		EntityID: id,
		Previous: p,
	})
	return nil
}

// List scopes the result set by caller role: admins see every project,
// everyone else only projects they actively belong to.
func (s *service) List(ctx context.Context, callerID, callerRole string, q ListQuery) (*ListResponse, error) {
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	memberUserID := ""
	if callerRole != user.RoleAdmin {
		memberUserID = callerID
	}

	items, total, err := s.repo.List(ctx, q, memberUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proyectos: %w", err)
	}
	return &ListResponse{Data: items, TotalRows: total}, nil
}

// AsignarUsuario is an upsert: an existing membership is reactivated and its
// role updated instead of creating a duplicate row.
func (s *service) AsignarUsuario(ctx context.Context, actorID, proyectoID string, req AsignarUsuarioRequest) (*ProyectoMiembro, error) {
	if _, err := s.ByID(ctx, proyectoID); err != nil {
		return nil, err
	}
	if _, err := s.users.ByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("usuario no encontrado")
		}
		return nil, err
	}

	rol := RolDev
	if req.Rol != nil {
		rol = *req.Rol
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	m, err := s.repo.MiembroByUserAndProyecto(ctx, req.UserID, proyectoID)
	switch {
	case err == nil:
		m.Rol = rol
		m.IsActive = isActive
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = &ProyectoMiembro{
			UserID:     req.UserID,
			ProyectoID: proyectoID,
			Rol:        rol,
			IsActive:   isActive,
		}
	default:
		return nil, err
	}

	if err := s.repo.SaveMiembro(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("el usuario ya está asignado a este proyecto")
		}
		return nil, fmt.Errorf("failed to save miembro: %w", err)
	}

	s.recorder.Record(ctx, actorID, "POST", "/api/proyectos/"+proyectoID+"/asignar", audit.Snapshot{
		EntityID: m.ID,
		Current:  m,
	})
	return m, nil
}

func (s *service) DesasignarUsuario(ctx context.Context, actorID, proyectoID, userID string) error {
	m, err := s.repo.MiembroByUserAndProyecto(ctx, userID, proyectoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("el usuario no está asignado a este proyecto")
	}
	if err != nil {
		return err
	}

	previous := *m
	m.IsActive = false
	if err := s.repo.SaveMiembro(ctx, m); err != nil {
		return fmt.Errorf("failed to deactivate miembro: %w", err)
	}

	s.recorder.Record(ctx, actorID, "DELETE", "/api/proyectos/"+proyectoID+"/miembros/"+userID, audit.Snapshot{
		EntityID: m.ID,
		Previous: &previous,
		Current:  m,
	})
	return nil
}

func (s *service) Miembros(ctx context.Context, proyectoID string) ([]*MiembroView, error) {
	if _, err := s.ByID(ctx, proyectoID); err != nil {
		return nil, err
	}
	return s.repo.MiembrosByProyecto(ctx, proyectoID)
}

func (s *service) MisProyectos(ctx context.Context, userID string) ([]*MisProyectoView, error) {
	return s.repo.ProyectosByUser(ctx, userID)
}

func (s *service) AssertMember(ctx context.Context, userID, proyectoID string) error {
	_, err := s.repo.ActiveMiembro(ctx, userID, proyectoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Forbidden("no estás asignado a este proyecto")
	}
	return err
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
