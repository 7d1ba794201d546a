package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

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
	"horas-backend/internal/gateways/websocket"
	"horas-backend/internal/middleware"
)

// Router mounts every HTTP surface. Public routes sit under /api;
// everything else goes through the auth middleware.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Router {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	return &Router{engine: engine, cfg: cfg, logger: logger}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type Handlers struct {
	Auth     auth.Handler
	User     user.Handler
	Proyecto proyecto.Handler
	Hora     hora.Handler
	Chat     chat.Handler
	Audit    audit.Handler
	MenuItem menuitem.Handler
	Setting  setting.Handler
	Health   health.Handler
	WS       *websocket.Handler
}

func (r *Router) Register(h Handlers, loader middleware.IdentityLoader) {
	api := r.engine.Group("/api")

	health.RegisterRoutes(api, h.Health)
	auth.RegisterPublicRoutes(api, h.Auth)

	protected := api.Group("")
	protected.Use(middleware.Authorize(r.cfg.JWTSecret, loader))
	{
		auth.RegisterProtectedRoutes(protected, h.Auth)
		user.RegisterRoutes(protected, h.User)
		proyecto.RegisterRoutes(protected, h.Proyecto)
		hora.RegisterRoutes(protected, h.Hora)
		chat.RegisterRoutes(protected, h.Chat)
		audit.RegisterRoutes(protected, h.Audit)
		menuitem.RegisterRoutes(protected, h.MenuItem)
		setting.RegisterRoutes(protected, h.Setting)
	}

	websocket.RegisterRoutes(r.engine, h.WS)
}
