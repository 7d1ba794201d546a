package setting

import (
	"github.com/gin-gonic/gin"

	"horas-backend/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PATCH("", middleware.RequireRole("admin"), h.Update)
	}
}
