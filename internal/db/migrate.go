package db

import (
	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/chat"
	"horas-backend/internal/app/hora"
	"horas-backend/internal/app/menuitem"
	"horas-backend/internal/app/proyecto"
	"horas-backend/internal/app/setting"
	"horas-backend/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&user.User{},
		&proyecto.Proyecto{},
		&proyecto.ProyectoMiembro{},
		&hora.Hora{},
		&chat.ChatMessage{},
		&chat.ChatUserState{},
		&audit.AuditLog{},
		&menuitem.MenuItem{},
		&setting.Setting{},
	)
	if err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}
