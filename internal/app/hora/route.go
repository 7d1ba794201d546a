package hora

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	horas := rg.Group("/horas")
	{
		horas.POST("", h.Create)
		horas.GET("/mis-horas", h.MisHoras)
		horas.GET("/mis-notificaciones", h.MisNotificaciones)
		horas.GET("/export", h.Export)
		horas.PATCH("/:id", h.Update)
		horas.DELETE("/:id", h.Delete)
	}
}
