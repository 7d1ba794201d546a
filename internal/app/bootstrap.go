package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"horas-backend/internal/app/audit"
	"horas-backend/internal/app/auth"
	"horas-backend/internal/app/chat"
	"horas-backend/internal/app/health"
	"horas-backend/internal/app/hora"
	"horas-backend/internal/app/menuitem"
	"horas-backend/internal/app/proyecto"
	"horas-backend/internal/app/setting"
	"horas-backend/internal/app/user"
	"horas-backend/internal/config"
	"horas-backend/internal/db"
	"horas-backend/internal/db/seeder"
	"horas-backend/internal/gateways/websocket"
	minioprovider "horas-backend/internal/providers/minio"
	redisprovider "horas-backend/internal/providers/redis"
	"horas-backend/internal/router"
	"horas-backend/internal/utils"
)

// Application is the wired system: repositories, services, handlers,
// the socket hub and the HTTP router.
type Application struct {
	Router *router.Router
	Hub    *websocket.Hub
	DB     *gorm.DB
}

func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	database, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(database, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := seeder.Seed(ctx, database, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	redisProvider := redisprovider.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)

	minioProvider, err := minioprovider.NewMinioProvider(cfg, logger)
	if err != nil {
		// Image upload degrades gracefully; everything else keeps working.
		logger.Warn("minio unavailable, chat uploads disabled", zap.Error(err))
		minioProvider = nil
	}

	bus := utils.NewEventBus()

	auditRepo := audit.NewRepository(database)
	auditService := audit.NewService(auditRepo, logger)

	userRepo := user.NewRepository(database)
	userService := user.NewService(userRepo, auditService, logger)

	proyectoRepo := proyecto.NewRepository(database)
	proyectoService := proyecto.NewService(proyectoRepo, userRepo, auditService, logger)

	horaRepo := hora.NewRepository(database)
	horaService := hora.NewService(horaRepo, proyectoService, userRepo, auditService, bus, logger, cfg.DailyTargetMinutes)

	chatRepo := chat.NewRepository(database)
	chatService := chat.NewService(chatRepo, userRepo, redisProvider, minioProvider, bus, logger)

	menuRepo := menuitem.NewRepository(database)
	menuService := menuitem.NewService(menuRepo, redisProvider, auditService, logger)

	authService := auth.NewService(userRepo, menuService, auditService, logger, cfg.JWTSecret, cfg.JWTTTL)

	settingService := setting.NewService(database, auditService, logger)

	checker := &utils.HealthChecker{DB: database, Redis: redisProvider.Client}

	hub := websocket.NewHub(chatService, horaService, bus, logger)
	wsHandler := websocket.NewHandler(hub, userService, cfg.JWTSecret, logger)

	r := router.New(cfg, logger)
	r.Register(router.Handlers{
		Auth:     auth.NewHandler(authService),
		User:     user.NewHandler(userService),
		Proyecto: proyecto.NewHandler(proyectoService),
		Hora:     hora.NewHandler(horaService),
		Chat:     chat.NewHandler(chatService),
		Audit:    audit.NewHandler(auditService),
		MenuItem: menuitem.NewHandler(menuService),
		Setting:  setting.NewHandler(settingService),
		Health:   health.NewHandler(checker),
		WS:       wsHandler,
	}, userService)

	return &Application{Router: r, Hub: hub, DB: database}, nil
}
