package proyecto

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Proyecto) error
	ByID(ctx context.Context, id string) (*Proyecto, error)
	Save(ctx context.Context, p *Proyecto) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, q ListQuery, memberUserID string) ([]*ProyectoListItem, int64, error)

	MiembroByUserAndProyecto(ctx context.Context, userID, proyectoID string) (*ProyectoMiembro, error)
	ActiveMiembro(ctx context.Context, userID, proyectoID string) (*ProyectoMiembro, error)
	SaveMiembro(ctx context.Context, m *ProyectoMiembro) error
	MiembrosByProyecto(ctx context.Context, proyectoID string) ([]*MiembroView, error)
	ProyectosByUser(ctx context.Context, userID string) ([]*MisProyectoView, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Proyecto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) ByID(ctx context.Context, id string) (*Proyecto, error) {
	var p Proyecto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Save(ctx context.Context, p *Proyecto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Proyecto{}, "id = ?", id).Error
}

// List returns projects with active member counts. When memberUserID is
// non-empty the listing is restricted to projects where that user holds an
// active membership (the non-admin view).
func (r *repository) List(ctx context.Context, q ListQuery, memberUserID string) ([]*ProyectoListItem, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Proyecto{}).
		Where("proyectos.deleted_at IS NULL")

	if q.SearchInput != "" {
		pattern := "%" + q.SearchInput + "%"
		base = base.Where("(proyectos.nombre ILIKE ? OR proyectos.descripcion ILIKE ?)", pattern, pattern)
	}

	if memberUserID != "" {
		base = base.Where(
			`EXISTS (
				SELECT 1 FROM proyectos_miembros pm
				WHERE pm.proyecto_id = proyectos.id
				  AND pm.user_id = ?
				  AND pm.is_active = true
			)`, memberUserID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*ProyectoListItem
	err := base.
		Select(`proyectos.id,
			proyectos.nombre,
			proyectos.descripcion,
			proyectos.is_active,
			proyectos.created_at,
			COUNT(DISTINCT pm_active.user_id) AS miembros_count`).
		Joins(`LEFT JOIN proyectos_miembros pm_active
			ON pm_active.proyecto_id = proyectos.id AND pm_active.is_active = true`).
		Group("proyectos.id").
		Order("proyectos.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) MiembroByUserAndProyecto(ctx context.Context, userID, proyectoID string) (*ProyectoMiembro, error) {
	var m ProyectoMiembro
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND proyecto_id = ?", userID, proyectoID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ActiveMiembro(ctx context.Context, userID, proyectoID string) (*ProyectoMiembro, error) {
	var m ProyectoMiembro
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND proyecto_id = ? AND is_active = true", userID, proyectoID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) SaveMiembro(ctx context.Context, m *ProyectoMiembro) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *repository) MiembrosByProyecto(ctx context.Context, proyectoID string) ([]*MiembroView, error) {
	var miembros []*MiembroView
	err := r.db.WithContext(ctx).
		Table("proyectos_miembros pm").
		Select(`pm.id,
			pm.user_id,
			pm.proyecto_id,
			pm.rol,
			pm.is_active,
			pm.created_at AS assigned_at,
			u.email,
			u.first_name,
			u.last_name,
			u.role AS system_role`).
		Joins("INNER JOIN users u ON u.id = pm.user_id").
		Where("pm.proyecto_id = ? AND pm.is_active = true", proyectoID).
		Order("u.first_name ASC, u.last_name ASC").
		Scan(&miembros).Error
	return miembros, err
}

func (r *repository) ProyectosByUser(ctx context.Context, userID string) ([]*MisProyectoView, error) {
	var rows []*MisProyectoView
	err := r.db.WithContext(ctx).
		Table("proyectos_miembros pm").
		Select(`p.id,
			p.nombre,
			p.descripcion,
			p.is_active,
			pm.rol`).
		Joins("INNER JOIN proyectos p ON p.id = pm.proyecto_id").
		Where("pm.user_id = ? AND pm.is_active = true AND p.deleted_at IS NULL", userID).
		Order("p.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
