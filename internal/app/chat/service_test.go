package chat

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/user"
	"horas-backend/internal/utils"
)

type mockChatRepo struct {
	messages   []*ChatMessage
	states     map[string]*ChatUserState
	clock      time.Time
	stateReads int
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{
		states: make(map[string]*ChatUserState),
		clock:  time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockChatRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockChatRepo) CreateMessage(_ context.Context, msg *ChatMessage) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = m.tick()
	copied := *msg
	m.messages = append(m.messages, &copied)
	return nil
}

func (m *mockChatRepo) MessageByID(_ context.Context, id string) (*ChatMessage, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			copied := *msg
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChatRepo) ListMessages(_ context.Context, limit int, before *time.Time) ([]*ChatMessage, error) {
	var out []*ChatMessage
	for _, msg := range m.messages {
		if before != nil && !msg.CreatedAt.Before(*before) {
			continue
		}
		copied := *msg
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockChatRepo) StateByUser(_ context.Context, userID string) (*ChatUserState, error) {
	m.stateReads++
	s, ok := m.states[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockChatRepo) UpsertState(_ context.Context, userID string, lastReadAt time.Time) error {
	if s, ok := m.states[userID]; ok {
		s.LastReadAt = lastReadAt
		return nil
	}
	m.states[userID] = &ChatUserState{ID: uuid.NewString(), UserID: userID, LastReadAt: lastReadAt}
	return nil
}

func (m *mockChatRepo) CountUnread(_ context.Context, userID string, lastReadAt *time.Time) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.SenderID == userID {
			continue
		}
		if lastReadAt != nil && !msg.CreatedAt.After(*lastReadAt) {
			continue
		}
		count++
	}
	return count, nil
}

type mockUserGateway struct {
	users map[string]*user.User
}

func newMockUserGateway(ids ...string) *mockUserGateway {
	g := &mockUserGateway{users: make(map[string]*user.User)}
	for _, id := range ids {
		g.users[id] = &user.User{
			ID:        id,
			Email:     id + "@example.com",
			FirstName: "Test",
			LastName:  id,
			IsActive:  true,
		}
	}
	return g
}

func (g *mockUserGateway) ActiveByID(_ context.Context, id string) (*user.User, error) {
	u, ok := g.users[id]
	if !ok || !u.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (g *mockUserGateway) ActiveIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(g.users))
	for id, u := range g.users {
		if u.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func newChatService(repo *mockChatRepo, users *mockUserGateway) *service {
	svc := NewService(repo, users, nil, nil, utils.NewEventBus(), zap.NewNop())
	return svc.(*service)
}

func str(s string) *string { return &s }

func TestCreateMessageRejectsEmptyContent(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1"))

	cases := []CreateMessageRequest{
		{},
		{Text: str("   ")},
		{Text: str(""), Image: str("  ")},
	}
	for _, req := range cases {
		_, err := svc.CreateMessage(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
	assert.Empty(t, repo.messages)
}

func TestCreateMessageRejectsUnknownSender(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1"))

	_, err := svc.CreateMessage(context.Background(), "ghost", CreateMessageRequest{Text: str("hola")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateAndListRoundTrip(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1"))

	created, err := svc.CreateMessage(context.Background(), "user-1", CreateMessageRequest{Text: str("  hola ")})
	assert.NoError(t, err)
	assert.Equal(t, "hola", *created.Text)
	assert.Nil(t, created.Image)
	assert.Equal(t, "user-1", created.Sender.ID)
	assert.Equal(t, "Test user-1", created.Sender.FullName)

	listed, err := svc.ListMessages(context.Background(), 0, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, listed.Total)
	assert.Equal(t, created.ID, listed.Data[0].ID)
	assert.Equal(t, "hola", *listed.Data[0].Text)
}

func TestListMessagesChronologicalOrder(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1"))

	first, _ := svc.CreateMessage(context.Background(), "user-1", CreateMessageRequest{Text: str("uno")})
	second, _ := svc.CreateMessage(context.Background(), "user-1", CreateMessageRequest{Text: str("dos")})

	listed, err := svc.ListMessages(context.Background(), 0, "")
	assert.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, []string{listed.Data[0].ID, listed.Data[1].ID})
}

func TestUnreadCountsOnlyForeignNewerMessages(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1", "user-2"))

	// No state row yet: every foreign message counts.
	svc.CreateMessage(context.Background(), "user-2", CreateMessageRequest{Text: str("hola")})
	svc.CreateMessage(context.Background(), "user-2", CreateMessageRequest{Text: str("qué tal")})
	svc.CreateMessage(context.Background(), "user-1", CreateMessageRequest{Text: str("propio")})

	unread, err := svc.Unread(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, unread.Count)

	// user-2 does not count their own messages either.
	unread, err = svc.Unread(context.Background(), "user-2")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, unread.Count)
}

func TestMarkReadResetsUnreadAndIsMonotonic(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1", "user-2"))
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.CreateMessage(context.Background(), "user-2", CreateMessageRequest{Text: str("hola")})

	first, err := svc.MarkRead(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.True(t, first.OK)

	unread, _ := svc.Unread(context.Background(), "user-1")
	assert.EqualValues(t, 0, unread.Count)

	// Repeating advances the watermark without error.
	now = now.Add(time.Minute)
	second, err := svc.MarkRead(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.True(t, second.LastReadAt.After(first.LastReadAt))

	// A message after the watermark becomes unread again.
	repo.clock = now.Add(time.Hour)
	svc.CreateMessage(context.Background(), "user-2", CreateMessageRequest{Text: str("nuevo")})
	unread, _ = svc.Unread(context.Background(), "user-1")
	assert.EqualValues(t, 1, unread.Count)
}

func TestMarkReadFirstWriteFromTwoTabsConverges(t *testing.T) {
	repo := newMockChatRepo()
	svc := newChatService(repo, newMockUserGateway("user-1"))
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Two tabs mark read at once before any state row exists. Both
	// writes go through the single-statement upsert, so neither one
	// can lose an insert race against the other.
	first, err := svc.MarkRead(context.Background(), "user-1")
	assert.NoError(t, err)

	now = now.Add(10 * time.Millisecond)
	second, err := svc.MarkRead(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.True(t, first.OK)
	assert.True(t, second.OK)
	assert.Len(t, repo.states, 1)
	assert.Equal(t, second.LastReadAt, repo.states["user-1"].LastReadAt)

	// MarkRead never reads the state row first; the write is blind.
	assert.Zero(t, repo.stateReads)
}

func TestActiveUserIDsExcludesRequested(t *testing.T) {
	svc := newChatService(newMockChatRepo(), newMockUserGateway("a", "b", "c"))

	ids, err := svc.ActiveUserIDs(context.Background(), "b")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	all, err := svc.ActiveUserIDs(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateMessagePublishesFanoutEvent(t *testing.T) {
	repo := newMockChatRepo()
	bus := utils.NewEventBus()
	svc := NewService(repo, newMockUserGateway("user-1"), nil, nil, bus, zap.NewNop())

	events := bus.SubscribeCh()
	created, err := svc.CreateMessage(context.Background(), "user-1", CreateMessageRequest{Text: str("hola")})
	assert.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventMessageCreated, ev.Name)
		payload, ok := ev.Data.(MessageCreated)
		assert.True(t, ok)
		assert.Equal(t, "user-1", payload.SenderID)
		assert.Equal(t, created.ID, payload.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a chat-message-created event")
	}
}
