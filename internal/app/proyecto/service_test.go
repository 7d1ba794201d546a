package proyecto

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/user"
)

type mockProyectoRepo struct {
	proyectos map[string]*Proyecto
	miembros  map[string]*ProyectoMiembro
	nextID    int
}

func newMockProyectoRepo() *mockProyectoRepo {
	return &mockProyectoRepo{
		proyectos: make(map[string]*Proyecto),
		miembros:  make(map[string]*ProyectoMiembro),
	}
}

func (m *mockProyectoRepo) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockProyectoRepo) Create(_ context.Context, p *Proyecto) error {
	p.ID = m.genID("proyecto")
	copied := *p
	m.proyectos[p.ID] = &copied
	return nil
}

func (m *mockProyectoRepo) ByID(_ context.Context, id string) (*Proyecto, error) {
	p, ok := m.proyectos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProyectoRepo) Save(_ context.Context, p *Proyecto) error {
	copied := *p
	m.proyectos[p.ID] = &copied
	return nil
}

func (m *mockProyectoRepo) SoftDelete(_ context.Context, id string) error {
	delete(m.proyectos, id)
	return nil
}

func (m *mockProyectoRepo) List(_ context.Context, q ListQuery, memberUserID string) ([]*ProyectoListItem, int64, error) {
	var items []*ProyectoListItem
	for _, p := range m.proyectos {
		if memberUserID != "" {
			member := false
			for _, mb := range m.miembros {
				if mb.ProyectoID == p.ID && mb.UserID == memberUserID && mb.IsActive {
					member = true
					break
				}
			}
			if !member {
				continue
			}
		}
		items = append(items, &ProyectoListItem{
			ID:       p.ID,
			Nombre:   p.Nombre,
			IsActive: p.IsActive,
		})
	}
	return items, int64(len(items)), nil
}

func (m *mockProyectoRepo) MiembroByUserAndProyecto(_ context.Context, userID, proyectoID string) (*ProyectoMiembro, error) {
	for _, mb := range m.miembros {
		if mb.UserID == userID && mb.ProyectoID == proyectoID {
			copied := *mb
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProyectoRepo) ActiveMiembro(_ context.Context, userID, proyectoID string) (*ProyectoMiembro, error) {
	for _, mb := range m.miembros {
		if mb.UserID == userID && mb.ProyectoID == proyectoID && mb.IsActive {
			copied := *mb
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProyectoRepo) SaveMiembro(_ context.Context, mb *ProyectoMiembro) error {
	if mb.ID == "" {
		for _, existing := range m.miembros {
			if existing.UserID == mb.UserID && existing.ProyectoID == mb.ProyectoID {
				return gorm.ErrDuplicatedKey
			}
		}
		mb.ID = m.genID("miembro")
	}
	copied := *mb
	m.miembros[mb.ID] = &copied
	return nil
}

func (m *mockProyectoRepo) MiembrosByProyecto(_ context.Context, proyectoID string) ([]*MiembroView, error) {
	var views []*MiembroView
	for _, mb := range m.miembros {
		if mb.ProyectoID == proyectoID && mb.IsActive {
			views = append(views, &MiembroView{
				ID:         mb.ID,
				UserID:     mb.UserID,
				ProyectoID: mb.ProyectoID,
				Rol:        mb.Rol,
				IsActive:   mb.IsActive,
			})
		}
	}
	return views, nil
}

func (m *mockProyectoRepo) ProyectosByUser(_ context.Context, userID string) ([]*MisProyectoView, error) {
	var rows []*MisProyectoView
	for _, mb := range m.miembros {
		p, ok := m.proyectos[mb.ProyectoID]
		if !ok || !mb.IsActive || mb.UserID != userID {
			continue
		}
		rows = append(rows, &MisProyectoView{
			ID:       p.ID,
			Nombre:   p.Nombre,
			IsActive: p.IsActive,
			Rol:      mb.Rol,
		})
	}
	return rows, nil
}

type stubUserRepo struct {
	ids map[string]bool
}

func (s *stubUserRepo) Create(context.Context, *user.User) error { return nil }

func (s *stubUserRepo) ByID(_ context.Context, id string) (*user.User, error) {
	if !s.ids[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &user.User{ID: id, IsActive: true}, nil
}

func (s *stubUserRepo) ByEmail(context.Context, string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) ActiveByID(ctx context.Context, id string) (*user.User, error) {
	return s.ByID(ctx, id)
}

func (s *stubUserRepo) ActiveIDs(context.Context) ([]string, error) { return nil, nil }

func (s *stubUserRepo) List(context.Context, user.ListQuery) ([]*user.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) ListAll(context.Context) ([]*user.User, error) { return nil, nil }

func (s *stubUserRepo) Save(context.Context, *user.User) error { return nil }

func (s *stubUserRepo) SoftDelete(context.Context, string) error { return nil }

func (s *stubUserRepo) UpdateLastLogin(context.Context, string) error { return nil }

func (s *stubUserRepo) SetTemporaryPassword(context.Context, string, string, time.Time) error {
	return nil
}

func (s *stubUserRepo) UpdatePassword(context.Context, string, string) error { return nil }

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, string, string, audit.Snapshot) {}

func newProyectoService(repo Repository, users user.Repository) Service {
	return NewService(repo, users, noopRecorder{}, zap.NewNop())
}

func TestCreateRejectsBlankNombre(t *testing.T) {
	repo := newMockProyectoRepo()
	svc := newProyectoService(repo, &stubUserRepo{})

	_, err := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, repo.proyectos)
}

func TestAssertMemberRequiresActiveMembership(t *testing.T) {
	repo := newMockProyectoRepo()
	users := &stubUserRepo{ids: map[string]bool{"user-1": true}}
	svc := newProyectoService(repo, users)

	p, err := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Interno"})
	assert.NoError(t, err)

	err = svc.AssertMember(context.Background(), "user-1", p.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.AsignarUsuario(context.Background(), "admin-1", p.ID, AsignarUsuarioRequest{UserID: "user-1"})
	assert.NoError(t, err)
	assert.NoError(t, svc.AssertMember(context.Background(), "user-1", p.ID))

	assert.NoError(t, svc.DesasignarUsuario(context.Background(), "admin-1", p.ID, "user-1"))
	err = svc.AssertMember(context.Background(), "user-1", p.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAsignarUsuarioReactivatesExistingMembership(t *testing.T) {
	repo := newMockProyectoRepo()
	users := &stubUserRepo{ids: map[string]bool{"user-1": true}}
	svc := newProyectoService(repo, users)

	p, _ := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Interno"})

	first, err := svc.AsignarUsuario(context.Background(), "admin-1", p.ID, AsignarUsuarioRequest{UserID: "user-1"})
	assert.NoError(t, err)
	assert.Equal(t, RolDev, first.Rol)

	assert.NoError(t, svc.DesasignarUsuario(context.Background(), "admin-1", p.ID, "user-1"))

	lead := RolLead
	second, err := svc.AsignarUsuario(context.Background(), "admin-1", p.ID, AsignarUsuarioRequest{UserID: "user-1", Rol: &lead})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "reassignment reuses the existing row")
	assert.Equal(t, RolLead, second.Rol)
	assert.True(t, second.IsActive)
	assert.Len(t, repo.miembros, 1)
}

func TestAsignarUsuarioUnknownTargets(t *testing.T) {
	repo := newMockProyectoRepo()
	users := &stubUserRepo{ids: map[string]bool{"user-1": true}}
	svc := newProyectoService(repo, users)

	p, _ := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Interno"})

	_, err := svc.AsignarUsuario(context.Background(), "admin-1", "missing-proyecto", AsignarUsuarioRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.AsignarUsuario(context.Background(), "admin-1", p.ID, AsignarUsuarioRequest{UserID: "ghost"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDesasignarUsuarioWithoutMembership(t *testing.T) {
	repo := newMockProyectoRepo()
	svc := newProyectoService(repo, &stubUserRepo{})

	err := svc.DesasignarUsuario(context.Background(), "admin-1", "proyecto-1", "user-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListScopesByRole(t *testing.T) {
	repo := newMockProyectoRepo()
	users := &stubUserRepo{ids: map[string]bool{"user-1": true}}
	svc := newProyectoService(repo, users)

	mine, _ := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Mío"})
	_, _ = svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Ajeno"})
	_, err := svc.AsignarUsuario(context.Background(), "admin-1", mine.ID, AsignarUsuarioRequest{UserID: "user-1"})
	assert.NoError(t, err)

	asAdmin, err := svc.List(context.Background(), "admin-1", user.RoleAdmin, ListQuery{Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), asAdmin.TotalRows)

	asUser, err := svc.List(context.Background(), "user-1", user.RoleUser, ListQuery{Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), asUser.TotalRows)
	assert.Equal(t, mine.ID, asUser.Data[0].ID)
}

func TestUpdatePatchesAndValidates(t *testing.T) {
	repo := newMockProyectoRepo()
	svc := newProyectoService(repo, &stubUserRepo{})

	desc := "backend interno"
	p, _ := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Interno", Descripcion: &desc})

	blank := "  "
	_, err := svc.Update(context.Background(), "admin-1", p.ID, UpdateProyectoRequest{Nombre: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	nuevo := "Interno v2"
	inactive := false
	updated, err := svc.Update(context.Background(), "admin-1", p.ID, UpdateProyectoRequest{Nombre: &nuevo, IsActive: &inactive})
	assert.NoError(t, err)
	assert.Equal(t, "Interno v2", updated.Nombre)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "backend interno", *updated.Descripcion)
}

func TestDescripcionBlankBecomesNil(t *testing.T) {
	repo := newMockProyectoRepo()
	svc := newProyectoService(repo, &stubUserRepo{})

	blank := "   "
	p, err := svc.Create(context.Background(), "admin-1", CreateProyectoRequest{Nombre: "Interno", Descripcion: &blank})
	assert.NoError(t, err)
	assert.Nil(t, p.Descripcion)

	desc := "backend interno"
	updated, err := svc.Update(context.Background(), "admin-1", p.ID, UpdateProyectoRequest{Descripcion: &desc})
	assert.NoError(t, err)
	assert.Equal(t, "backend interno", *updated.Descripcion)

	updated, err = svc.Update(context.Background(), "admin-1", p.ID, UpdateProyectoRequest{Descripcion: &blank})
	assert.NoError(t, err)
	assert.Nil(t, updated.Descripcion)
}
