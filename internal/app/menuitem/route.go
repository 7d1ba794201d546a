package menuitem

import (
	"github.com/gin-gonic/gin"

	"horas-backend/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	items := rg.Group("/menu-items")
	{
		items.GET("/by-role", h.ByRole)

		admin := items.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", h.Create)
			admin.GET("", h.List)
			admin.GET("/:id", h.GetByID)
			admin.PATCH("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
