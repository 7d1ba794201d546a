package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"horas-backend/internal/middleware"
	"horas-backend/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub    *Hub
	loader middleware.IdentityLoader
	secret string
	logger *zap.SugaredLogger
}

func NewHandler(hub *Hub, loader middleware.IdentityLoader, secret string, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		loader: loader,
		secret: secret,
		logger: logger.Sugar(),
	}
}

// ServeWS upgrades GET /ws?token=<jwt>. The connection's identity is
// taken from the verified token, so a client cannot subscribe to
// another user's personal topic.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token requerido"})
		return
	}

	userID, err := utils.ParseAccessToken(h.secret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
		return
	}

	ident, err := h.loader.LoadIdentity(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "usuario inválido"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, ident.ID, ident.FullName(), ident.Avatar)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
