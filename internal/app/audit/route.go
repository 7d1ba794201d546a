package audit

import (
	"github.com/gin-gonic/gin"

	"horas-backend/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	logs := rg.Group("/audit-logs")
	logs.Use(middleware.RequireRole("admin"))
	{
		logs.GET("", h.List)
		logs.GET("/:id", h.GetByID)
	}
}
