package audit

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	List(ctx context.Context, q ListQuery) ([]*AuditLog, int64, error)
	ByID(ctx context.Context, id string) (*AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

var sortableFields = map[string]string{
	"createdAt": "created_at",
	"method":    "method",
	"resource":  "resource",
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]*AuditLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&AuditLog{})

	if q.SearchInput != "" {
		pattern := "%" + q.SearchInput + "%"
		base = base.Where("resource ILIKE ? OR method ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := sortableFields[q.SortField]; ok {
		dir := "ASC"
		if q.SortOrder == "DESC" {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	var entries []*AuditLog
	err := base.
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) ByID(ctx context.Context, id string) (*AuditLog, error) {
	var entry AuditLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
