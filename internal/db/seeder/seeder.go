package seeder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"horas-backend/internal/app/menuitem"
	"horas-backend/internal/app/user"
	"horas-backend/internal/config"
)

// Seed creates the initial admin account and the default menu when
// the database is empty. Safe to run on every boot.
func Seed(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	if err := seedAdmin(ctx, db, cfg, logger); err != nil {
		return err
	}
	return seedMenuItems(ctx, db, logger)
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	var existing user.User
	err := db.WithContext(ctx).Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Horas",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logger.Info("seeded admin user", zap.String("email", cfg.AdminEmail))
	return nil
}

func seedMenuItems(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&menuitem.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count menu items: %w", err)
	}
	if count > 0 {
		return nil
	}

	str := func(s string) *string { return &s }
	items := []menuitem.MenuItem{
		{Label: "Inicio", Icon: str("pi pi-home"), RouterLink: str("/"), Priority: 1, Roles: []string{"admin", "editor", "user"}, IsActive: true},
		{Label: "Mis Horas", Icon: str("pi pi-clock"), RouterLink: str("/horas"), Priority: 2, Roles: []string{"admin", "editor", "user"}, IsActive: true},
		{Label: "Proyectos", Icon: str("pi pi-briefcase"), RouterLink: str("/proyectos"), Priority: 3, Roles: []string{"admin"}, IsActive: true},
		{Label: "Usuarios", Icon: str("pi pi-users"), RouterLink: str("/usuarios"), Priority: 4, Roles: []string{"admin"}, IsActive: true},
		{Label: "Chat", Icon: str("pi pi-comments"), RouterLink: str("/chat"), Priority: 5, Roles: []string{"admin", "editor", "user"}, IsActive: true},
		{Label: "Auditoría", Icon: str("pi pi-list"), RouterLink: str("/auditoria"), Priority: 6, Roles: []string{"admin"}, IsActive: true},
		{Label: "Configuración", Icon: str("pi pi-cog"), RouterLink: str("/configuracion"), Priority: 7, Roles: []string{"admin", "editor"}, IsActive: true},
	}

	if err := db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to seed menu items: %w", err)
	}

	logger.Info("seeded default menu items", zap.Int("count", len(items)))
	return nil
}
