package chat

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	chat := rg.Group("/chat")
	{
		chat.GET("/messages", h.ListMessages)
		chat.POST("/messages", h.CreateMessage)
		chat.POST("/messages/upload", h.UploadImage)
		chat.GET("/unread-count", h.UnreadCount)
		chat.POST("/read", h.MarkRead)
	}
}
