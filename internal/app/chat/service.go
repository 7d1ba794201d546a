package chat

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/apperr"
	"horas-backend/internal/app/user"
	"horas-backend/internal/providers/minio"
	redisprovider "horas-backend/internal/providers/redis"
	"horas-backend/internal/utils"
)

const (
	// EventMessageCreated fans a new message out to every connected
	// client plus a fresh unread count per active user.
	EventMessageCreated = "chat-message-created"
	// EventRead re-pushes the unread count to the reader only.
	EventRead = "chat-read"

	recentMessagesCacheKey = "chat:messages:recent"
	recentMessagesCacheTTL = 30 * time.Second

	defaultPageSize = 100
	maxPageSize     = 200
)

// MessageCreated is the payload published on EventMessageCreated.
type MessageCreated struct {
	SenderID string
	Message  *MessageView
}

// UserGateway resolves sender identities and the active-user roster
// for fan-out. Satisfied by the user repository.
type UserGateway interface {
	ActiveByID(ctx context.Context, id string) (*user.User, error)
	ActiveIDs(ctx context.Context) ([]string, error)
}

type Service interface {
	CreateMessage(ctx context.Context, senderID string, req CreateMessageRequest) (*MessageView, error)
	ListMessages(ctx context.Context, limit int, before string) (*MessageListResponse, error)
	MarkRead(ctx context.Context, userID string) (*MarkReadResponse, error)
	Unread(ctx context.Context, userID string) (*UnreadCount, error)
	ActiveUserIDs(ctx context.Context, excludeUserID string) ([]string, error)
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*minio.UploadedFile, error)
}

type service struct {
	repo   Repository
	users  UserGateway
	cache  *redisprovider.RedisProvider
	minio  *minio.MinioProvider
	bus    *utils.EventBus
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewService(
	repo Repository,
	users UserGateway,
	cache *redisprovider.RedisProvider,
	minioProvider *minio.MinioProvider,
	bus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:   repo,
		users:  users,
		cache:  cache,
		minio:  minioProvider,
		bus:    bus,
		logger: logger.Sugar(),
		now:    time.Now,
	}
}

func (s *service) CreateMessage(ctx context.Context, senderID string, req CreateMessageRequest) (*MessageView, error) {
	sender, err := s.users.ActiveByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("usuario no encontrado")
		}
		return nil, err
	}

	text := normalizeText(req.Text)
	image := normalizeText(req.Image)
	if text == nil && image == nil {
		return nil, apperr.Validation("el mensaje está vacío")
	}

	m := &ChatMessage{
		SenderID: sender.ID,
		Text:     text,
		Image:    image,
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	s.invalidateRecentCache(ctx)

	view := mapMessage(m, sender)
	s.bus.Publish(EventMessageCreated, MessageCreated{
		SenderID: sender.ID,
		Message:  view,
	})
	return view, nil
}

func (s *service) ListMessages(ctx context.Context, limit int, before string) (*MessageListResponse, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var beforeAt *time.Time
	if before != "" {
		parsed, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return nil, apperr.Validation("before inválido, se espera RFC3339")
		}
		beforeAt = &parsed
	}

	firstPage := beforeAt == nil && limit == defaultPageSize
	if firstPage {
		if cached := s.recentFromCache(ctx); cached != nil {
			return cached, nil
		}
	}

	rows, err := s.repo.ListMessages(ctx, limit, beforeAt)
	if err != nil {
		return nil, err
	}

	// Newest-first from the store, chronological for the client.
	data := make([]*MessageView, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		data = append(data, mapStoredMessage(rows[i]))
	}

	resp := &MessageListResponse{Data: data, Total: len(data)}
	if firstPage {
		s.storeRecentCache(ctx, resp)
	}
	return resp, nil
}

// MarkRead is a blind upsert of "now". Concurrent calls from multiple
// tabs are safe: the last writer's timestamp wins.
func (s *service) MarkRead(ctx context.Context, userID string) (*MarkReadResponse, error) {
	now := s.now()

	if err := s.repo.UpsertState(ctx, userID, now); err != nil {
		return nil, err
	}

	s.bus.Publish(EventRead, userID)
	return &MarkReadResponse{OK: true, LastReadAt: now}, nil
}

// Unread never fails on a missing state row: a user who has never
// marked the chat as read simply has every foreign message unread.
func (s *service) Unread(ctx context.Context, userID string) (*UnreadCount, error) {
	var lastReadAt *time.Time
	state, err := s.repo.StateByUser(ctx, userID)
	if err == nil {
		lastReadAt = &state.LastReadAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	count, err := s.repo.CountUnread(ctx, userID, lastReadAt)
	if err != nil {
		return nil, err
	}
	return &UnreadCount{Count: count}, nil
}

func (s *service) ActiveUserIDs(ctx context.Context, excludeUserID string) ([]string, error) {
	ids, err := s.users.ActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	if excludeUserID == "" {
		return ids, nil
	}
	out := ids[:0]
	for _, id := range ids {
		if id != excludeUserID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *service) UploadImage(ctx context.Context, file *multipart.FileHeader) (*minio.UploadedFile, error) {
	if s.minio == nil {
		return nil, apperr.Validation("almacenamiento de imágenes no configurado")
	}
	return s.minio.UploadImage(ctx, file)
}

func (s *service) recentFromCache(ctx context.Context) *MessageListResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, recentMessagesCacheKey).Result()
	if err != nil {
		return nil
	}
	var resp MessageListResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *service) storeRecentCache(ctx context.Context, resp *MessageListResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.SetEX(ctx, recentMessagesCacheKey, raw, recentMessagesCacheTTL).Err(); err != nil {
		s.logger.Warnw("failed to cache recent messages", "error", err)
	}
}

func (s *service) invalidateRecentCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, recentMessagesCacheKey).Err(); err != nil {
		s.logger.Warnw("failed to invalidate chat cache", "error", err)
	}
}

func normalizeText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func mapMessage(m *ChatMessage, sender *user.User) *MessageView {
	fullName := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	if fullName == "" {
		fullName = sender.Email
	}
	if fullName == "" {
		fullName = "Usuario"
	}
	return &MessageView{
		ID:        m.ID,
		Text:      m.Text,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		Sender: SenderSummary{
			ID:        sender.ID,
			Email:     optional(sender.Email),
			FirstName: optional(sender.FirstName),
			LastName:  optional(sender.LastName),
			FullName:  fullName,
			Avatar:    optional(sender.Avatar),
		},
	}
}

func mapStoredMessage(m *ChatMessage) *MessageView {
	sender := m.Sender
	if sender == nil {
		sender = &user.User{ID: m.SenderID}
	}
	return mapMessage(m, sender)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
