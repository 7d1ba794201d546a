package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
	"horas-backend/internal/middleware"
)

type Handler interface {
	Login(c *gin.Context)
	CheckStatus(c *gin.Context)
	ResetPassword(c *gin.Context)
	ChangePassword(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	outcome, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	if outcome.Challenge != nil {
		c.JSON(http.StatusOK, outcome.Challenge)
		return
	}
	c.JSON(http.StatusOK, outcome.Auth)
}

func (h *handler) CheckStatus(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	payload, err := h.service.CheckStatus(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "contraseña temporal generada"})
}

func (h *handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), req); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
