package menuitem

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
	"horas-backend/internal/middleware"
)

type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	ByRole(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) Create(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	m, err := h.service.Create(c.Request.Context(), ident.ID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) GetByID(c *gin.Context) {
	m, err := h.service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, m)
}

// ByRole serves the caller's own menu, so editors and users can fetch
// it without admin rights.
func (h *handler) ByRole(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	items, err := h.service.ByRole(c.Request.Context(), ident.Role)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) Update(c *gin.Context) {
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	m, err := h.service.Update(c.Request.Context(), ident.ID, c.Param("id"), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	if err := h.service.Delete(c.Request.Context(), ident.ID, c.Param("id")); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
