package hora

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, h *Hora) error
	ByID(ctx context.Context, id string) (*Hora, error)
	Save(ctx context.Context, h *Hora) error
	Delete(ctx context.Context, h *Hora) error
	ListByUser(ctx context.Context, q ListQuery) ([]*Hora, error)
	SumMinutesByDate(ctx context.Context, userID, desde, hasta string) (map[string]int, error)
	ListForExport(ctx context.Context, userID, desde, hasta string) ([]*ExportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// horaColumns renders fecha as YYYY-MM-DD so date columns scan into
// the model's string field.
const horaColumns = "id, user_id, proyecto_id, to_char(fecha, 'YYYY-MM-DD') AS fecha, minutos, descripcion, created_at, updated_at"

func (r *repository) Create(ctx context.Context, h *Hora) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("failed to create hora: %w", err)
	}
	return nil
}

func (r *repository) ByID(ctx context.Context, id string) (*Hora, error) {
	var h Hora
	err := r.db.WithContext(ctx).
		Select(horaColumns).
		Where("id = ?", id).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) Save(ctx context.Context, h *Hora) error {
	if err := r.db.WithContext(ctx).Save(h).Error; err != nil {
		return fmt.Errorf("failed to save hora: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, h *Hora) error {
	if err := r.db.WithContext(ctx).Delete(h).Error; err != nil {
		return fmt.Errorf("failed to delete hora: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, q ListQuery) ([]*Hora, error) {
	tx := r.db.WithContext(ctx).
		Select(horaColumns).
		Where("user_id = ?", q.UserID)

	if q.Desde != "" {
		tx = tx.Where("fecha >= ?", q.Desde)
	}
	if q.Hasta != "" {
		tx = tx.Where("fecha <= ?", q.Hasta)
	}

	var horas []*Hora
	err := tx.Order("fecha DESC").Order("created_at DESC").Find(&horas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list horas: %w", err)
	}
	return horas, nil
}

func (r *repository) SumMinutesByDate(ctx context.Context, userID, desde, hasta string) (map[string]int, error) {
	var rows []struct {
		Fecha   string
		Minutos int
	}
	err := r.db.WithContext(ctx).
		Model(&Hora{}).
		Select("to_char(fecha, 'YYYY-MM-DD') AS fecha, COALESCE(SUM(minutos), 0) AS minutos").
		Where("user_id = ?", userID).
		Where("fecha >= ?", desde).
		Where("fecha <= ?", hasta).
		Group("fecha").
		Order("fecha ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum minutes per date: %w", err)
	}

	byDate := make(map[string]int, len(rows))
	for _, row := range rows {
		byDate[row.Fecha] = row.Minutos
	}
	return byDate, nil
}

func (r *repository) ListForExport(ctx context.Context, userID, desde, hasta string) ([]*ExportRow, error) {
	tx := r.db.WithContext(ctx).
		Table("horas h").
		Select(`h.id, to_char(h.fecha, 'YYYY-MM-DD') AS fecha, h.minutos, h.descripcion,
			h.user_id, u.email, u.first_name, u.last_name,
			p.id AS proyecto_id, p.nombre AS proyecto_nombre`).
		Joins("INNER JOIN users u ON u.id = h.user_id").
		Joins("INNER JOIN proyectos p ON p.id = h.proyecto_id").
		Where("h.fecha >= ?", desde).
		Where("h.fecha <= ?", hasta)

	if userID != "" {
		tx = tx.Where("h.user_id = ?", userID)
	}

	var rows []*ExportRow
	err := tx.Order("u.first_name ASC").
		Order("u.last_name ASC").
		Order("h.fecha ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list horas for export: %w", err)
	}
	return rows, nil
}
