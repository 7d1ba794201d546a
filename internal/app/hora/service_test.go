package hora

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/user"
	"horas-backend/internal/utils"
)

type mockHoraRepo struct {
	rows map[string]*Hora
}

func newMockHoraRepo() *mockHoraRepo {
	return &mockHoraRepo{rows: make(map[string]*Hora)}
}

func (m *mockHoraRepo) Create(_ context.Context, h *Hora) error {
	h.ID = uuid.NewString()
	h.CreatedAt = time.Now()
	copied := *h
	m.rows[h.ID] = &copied
	return nil
}

func (m *mockHoraRepo) ByID(_ context.Context, id string) (*Hora, error) {
	h, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *h
	return &copied, nil
}

func (m *mockHoraRepo) Save(_ context.Context, h *Hora) error {
	copied := *h
	m.rows[h.ID] = &copied
	return nil
}

func (m *mockHoraRepo) Delete(_ context.Context, h *Hora) error {
	delete(m.rows, h.ID)
	return nil
}

func (m *mockHoraRepo) ListByUser(_ context.Context, q ListQuery) ([]*Hora, error) {
	var out []*Hora
	for _, h := range m.rows {
		if h.UserID != q.UserID {
			continue
		}
		if q.Desde != "" && h.Fecha < q.Desde {
			continue
		}
		if q.Hasta != "" && h.Fecha > q.Hasta {
			continue
		}
		copied := *h
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockHoraRepo) SumMinutesByDate(_ context.Context, userID, desde, hasta string) (map[string]int, error) {
	byDate := make(map[string]int)
	for _, h := range m.rows {
		if h.UserID == userID && h.Fecha >= desde && h.Fecha <= hasta {
			byDate[h.Fecha] += h.Minutos
		}
	}
	return byDate, nil
}

func (m *mockHoraRepo) ListForExport(_ context.Context, userID, desde, hasta string) ([]*ExportRow, error) {
	return nil, nil
}

type mockMemberships struct {
	// allowed holds "userID/proyectoID" pairs with an active membership.
	allowed map[string]bool
}

func (m *mockMemberships) AssertMember(_ context.Context, userID, proyectoID string) error {
	if m.allowed[userID+"/"+proyectoID] {
		return nil
	}
	return apperr.Forbidden("no estás asignado a este proyecto")
}

type mockUserDirectory struct {
	users []*user.User
}

func (m *mockUserDirectory) ListAll(_ context.Context) ([]*user.User, error) {
	return m.users, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, string, string, audit.Snapshot) {}

func newHoraService(repo *mockHoraRepo, members *mockMemberships) *service {
	svc := NewService(
		repo,
		members,
		&mockUserDirectory{},
		noopRecorder{},
		utils.NewEventBus(),
		zap.NewNop(),
		540,
	)
	return svc.(*service)
}

func TestCreateRejectsNonMembersWithoutPersisting(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{}})

	_, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    480,
	})

	assert.ErrorIs(t, err, apperr.ErrForbidden)

	listed, listErr := svc.MisHoras(context.Background(), "user-1", user.RoleUser, ListQuery{})
	assert.NoError(t, listErr)
	assert.Empty(t, listed)
}

func TestCreateForMember(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	created, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    480,
	})

	assert.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, 480, created.Minutos)
}

func TestAdminCreatesOnBehalfOfMember(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-2/proyecto-1": true,
	}})

	created, err := svc.Create(context.Background(), "admin-1", user.RoleAdmin, CreateHoraRequest{
		UserID:     "user-2",
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    300,
	})

	assert.NoError(t, err)
	assert.Equal(t, "user-2", created.UserID)
}

func TestNonAdminCannotActOnBehalf(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	created, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		UserID:     "user-2",
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    60,
	})

	assert.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
}

func TestCreateRejectsMalformedDate(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	_, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "02/01/2024",
		Minutos:    60,
	})

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateRechecksMembershipOnProjectChange(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	created, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    480,
	})
	assert.NoError(t, err)

	otherProject := "proyecto-2"
	_, err = svc.Update(context.Background(), "user-1", user.RoleUser, created.ID, UpdateHoraRequest{
		ProyectoID: &otherProject,
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	unchanged, _ := repo.ByID(context.Background(), created.ID)
	assert.Equal(t, "proyecto-1", unchanged.ProyectoID)
}

func TestUpdateForbiddenForOtherUsersRows(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	created, _ := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    480,
	})

	minutos := 60
	_, err := svc.Update(context.Background(), "user-2", user.RoleUser, created.ID, UpdateHoraRequest{
		Minutos: &minutos,
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = svc.Delete(context.Background(), "user-2", user.RoleUser, created.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAdminCanEditAnyRow(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})

	created, _ := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    480,
	})

	minutos := 120
	updated, err := svc.Update(context.Background(), "admin-1", user.RoleAdmin, created.ID, UpdateHoraRequest{
		Minutos: &minutos,
	})
	assert.NoError(t, err)
	assert.Equal(t, 120, updated.Minutos)

	assert.NoError(t, svc.Delete(context.Background(), "admin-1", user.RoleAdmin, created.ID))
	_, err = repo.ByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMisNotificacionesFromPersistedHours(t *testing.T) {
	repo := newMockHoraRepo()
	svc := newHoraService(repo, &mockMemberships{allowed: map[string]bool{
		"user-1/proyecto-1": true,
	}})
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC) // Wednesday
	}

	for _, fecha := range []string{"2024-01-01", "2024-01-02"} {
		_, err := svc.Create(context.Background(), "user-1", user.RoleUser, CreateHoraRequest{
			ProyectoID: "proyecto-1",
			Fecha:      fecha,
			Minutos:    540,
		})
		assert.NoError(t, err)
	}

	resp, err := svc.MisNotificaciones(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.Equal(t, "2024-01-01", resp.Desde)
	assert.Equal(t, "2024-01-03", resp.Hasta)
	assert.Len(t, resp.Notifications, 1)
	assert.Equal(t, "warning", resp.Notifications[0].Type)
	assert.Len(t, resp.Missing, 1)
	assert.Equal(t, "2024-01-03", resp.Missing[0].Fecha)
	assert.InDelta(t, 9.00, resp.Missing[0].FaltanHoras, 0.001)
}

func TestHorasChangedEventPublishedForRowOwner(t *testing.T) {
	repo := newMockHoraRepo()
	bus := utils.NewEventBus()
	svc := NewService(
		repo,
		&mockMemberships{allowed: map[string]bool{"user-2/proyecto-1": true}},
		&mockUserDirectory{},
		noopRecorder{},
		bus,
		zap.NewNop(),
		540,
	)

	events := bus.SubscribeCh()
	_, err := svc.Create(context.Background(), "admin-1", user.RoleAdmin, CreateHoraRequest{
		UserID:     "user-2",
		ProyectoID: "proyecto-1",
		Fecha:      "2024-01-02",
		Minutos:    60,
	})
	assert.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventHorasChanged, ev.Name)
		assert.Equal(t, "user-2", ev.Data)
	case <-time.After(time.Second):
		t.Fatal("expected a horas-changed event")
	}
}
