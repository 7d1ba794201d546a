package user

import (
	"github.com/gin-gonic/gin"

	"horas-backend/internal/middleware"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	users := rg.Group("/users")
	users.Use(middleware.RequireRole("admin"))
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/all", h.ListAll)
		users.GET("/:id", h.GetByID)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}
