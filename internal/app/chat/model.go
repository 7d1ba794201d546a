package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"horas-backend/internal/app/user"
)

// ChatMessage is immutable once created: there is no edit or delete
// path anywhere in the API.
type ChatMessage struct {
	ID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID string  `gorm:"type:uuid;not null;index" json:"senderId"`
	Text     *string `gorm:"type:text" json:"text"`
	Image    *string `gorm:"type:text" json:"image"`

	Sender *user.User `gorm:"foreignKey:SenderID" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ChatUserState holds the single per-user read watermark. Unread
// counts are derived from it, never stored.
type ChatUserState struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	LastReadAt time.Time `gorm:"not null" json:"lastReadAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (ChatUserState) TableName() string {
	return "chat_user_states"
}

func (s *ChatUserState) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type CreateMessageRequest struct {
	Text  *string `json:"text"`
	Image *string `json:"image"`
}

type SenderSummary struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	FullName  string  `json:"fullName"`
	Avatar    *string `json:"avatar"`
}

type MessageView struct {
	ID        string        `json:"id"`
	Text      *string       `json:"text"`
	Image     *string       `json:"image"`
	CreatedAt time.Time     `json:"createdAt"`
	Sender    SenderSummary `json:"sender"`
}

type MessageListResponse struct {
	Data  []*MessageView `json:"data"`
	Total int            `json:"total"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type MarkReadResponse struct {
	OK         bool      `json:"ok"`
	LastReadAt time.Time `json:"lastReadAt"`
}
