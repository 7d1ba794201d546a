package menuitem

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, m *MenuItem) error
	ByID(ctx context.Context, id string) (*MenuItem, error)
	List(ctx context.Context) ([]*MenuItem, error)
	ByRole(ctx context.Context, role string) ([]*MenuItem, error)
	Save(ctx context.Context, m *MenuItem) error
	SoftDelete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *MenuItem) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (r *repository) ByID(ctx context.Context, id string) (*MenuItem, error) {
	var m MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context) ([]*MenuItem, error) {
	var items []*MenuItem
	err := r.db.WithContext(ctx).
		Order("priority ASC").
		Order("label ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (r *repository) ByRole(ctx context.Context, role string) ([]*MenuItem, error) {
	var items []*MenuItem
	err := r.db.WithContext(ctx).
		Where("? = ANY(roles)", role).
		Where("is_active = ?", true).
		Order("priority ASC").
		Order("label ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items by role: %w", err)
	}
	return items, nil
}

func (r *repository) Save(ctx context.Context, m *MenuItem) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&MenuItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&MenuItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}
