package chat

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateMessage(ctx context.Context, m *ChatMessage) error
	MessageByID(ctx context.Context, id string) (*ChatMessage, error)
	ListMessages(ctx context.Context, limit int, before *time.Time) ([]*ChatMessage, error)
	StateByUser(ctx context.Context, userID string) (*ChatUserState, error)
	UpsertState(ctx context.Context, userID string, lastReadAt time.Time) error
	CountUnread(ctx context.Context, userID string, lastReadAt *time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMessage(ctx context.Context, m *ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *repository) MessageByID(ctx context.Context, id string) (*ChatMessage, error) {
	var m ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns the newest messages first. Callers reverse the
// slice for chronological display.
func (r *repository) ListMessages(ctx context.Context, limit int, before *time.Time) ([]*ChatMessage, error) {
	tx := r.db.WithContext(ctx).
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit)

	if before != nil {
		tx = tx.Where("created_at < ?", *before)
	}

	var messages []*ChatMessage
	if err := tx.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

func (r *repository) StateByUser(ctx context.Context, userID string) (*ChatUserState, error) {
	var s ChatUserState
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertState writes the read watermark in a single statement so that
// concurrent first reads from several tabs cannot race on the insert.
func (r *repository) UpsertState(ctx context.Context, userID string, lastReadAt time.Time) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO chat_user_states (id, user_id, last_read_at, updated_at)
		VALUES (gen_random_uuid(), ?, ?, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			last_read_at = EXCLUDED.last_read_at,
			updated_at = NOW()
	`, userID, lastReadAt).Error
	if err != nil {
		return fmt.Errorf("failed to upsert chat user state: %w", err)
	}
	return nil
}

func (r *repository) CountUnread(ctx context.Context, userID string, lastReadAt *time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&ChatMessage{}).
		Where("sender_id <> ?", userID)

	if lastReadAt != nil {
		tx = tx.Where("created_at > ?", *lastReadAt)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
