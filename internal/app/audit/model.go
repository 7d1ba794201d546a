package audit

import (
	"encoding/json"
	"time"
)

// AuditLog records one mutation: who did it, what entity it touched and the
// before/after snapshots.
type AuditLog struct {
	ID             string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Method         string          `json:"method" gorm:"not null"`
	Resource       string          `json:"resource" gorm:"not null"`
	EntityID       string          `json:"idEntity"`
	PreviousEntity json.RawMessage `json:"previousEntity,omitempty" gorm:"type:jsonb"`
	CurrentEntity  json.RawMessage `json:"currentEntity,omitempty" gorm:"type:jsonb"`
	UserID         *string         `json:"userId,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Snapshot is the explicit before/after pair a service hands to the recorder
// for a single call. It replaces any shared scratch state on the services,
// which would race under concurrent requests.
type Snapshot struct {
	EntityID string
	Previous interface{}
	Current  interface{}
}

type ListQuery struct {
	Limit       int
	Offset      int
	SearchInput string
	SortField   string
	SortOrder   string
}

type ListResponse struct {
	Data      []*AuditLog `json:"data"`
	TotalRows int64       `json:"totalRows"`
}
