package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
	"horas-backend/internal/middleware"
)

type Handler interface {
	ListMessages(c *gin.Context)
	CreateMessage(c *gin.Context)
	UploadImage(c *gin.Context)
	UnreadCount(c *gin.Context)
	MarkRead(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.service.ListMessages(c.Request.Context(), limit, c.Query("before"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	view, err := h.service.CreateMessage(c.Request.Context(), ident.ID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imagen inválida"})
		return
	}

	uploaded, err := h.service.UploadImage(c.Request.Context(), file)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, uploaded)
}

func (h *handler) UnreadCount(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	count, err := h.service.Unread(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, count)
}

func (h *handler) MarkRead(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	resp, err := h.service.MarkRead(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}
