package user

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id string) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ActiveByID(ctx context.Context, id string) (*User, error)
	ActiveIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context, q ListQuery) ([]*User, int64, error)
	ListAll(ctx context.Context) ([]*User, error)
	Save(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetTemporaryPassword(ctx context.Context, id, hash string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) ByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ActiveByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("is_active = true").
		Pluck("id", &ids).Error
	return ids, err
}

var sortableFields = map[string]string{
	"email":      "email",
	"first_name": "first_name",
	"last_name":  "last_name",
	"role":       "role",
	"last_login": "last_login",
	"createdAt":  "created_at",
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]*User, int64, error) {
	base := r.db.WithContext(ctx).Model(&User{})

	if q.SearchInput != "" {
		pattern := "%" + q.SearchInput + "%"
		base = base.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
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

	var users []*User
	err := base.
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]*User, error) {
	var users []*User
	err := r.db.WithContext(ctx).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) Save(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("last_login", time.Now().UTC()).Error
}

func (r *repository) SetTemporaryPassword(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"temporary_password":            hash,
			"temporary_password_expires_at": expiresAt,
		}).Error
}

func (r *repository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":                      hash,
			"temporary_password":            nil,
			"temporary_password_expires_at": nil,
		}).Error
}
