package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func RegisterPublicRoutes(rg *gin.RouterGroup, h Handler) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.POST("/change-password", h.ChangePassword)
	}
}

// RegisterProtectedRoutes mounts the endpoints that require a session.
func RegisterProtectedRoutes(rg *gin.RouterGroup, h Handler) {
	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/check-status", h.CheckStatus)
	}
}
