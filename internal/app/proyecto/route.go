package proyecto

import (
	"github.com/gin-gonic/gin"

	"horas-backend/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	proyectos := rg.Group("/proyectos")
	{
		proyectos.GET("/mis-proyectos", h.MisProyectos)
		proyectos.GET("", h.List)

		admin := proyectos.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", h.Create)
			admin.GET("/:id", h.GetByID)
			admin.PATCH("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
			admin.POST("/:id/miembros", h.Asignar)
			admin.DELETE("/:id/miembros/:userId", h.Desasignar)
			admin.GET("/:id/miembros", h.Miembros)
		}
	}
}
