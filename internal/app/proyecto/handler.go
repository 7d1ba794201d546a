package proyecto

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
	"horas-backend/internal/middleware"
)

type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Asignar(c *gin.Context)
	Desasignar(c *gin.Context)
	Miembros(c *gin.Context)
	MisProyectos(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) Create(c *gin.Context) {
	var req CreateProyectoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	p, err := h.service.Create(c.Request.Context(), ident.ID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ident, _ := middleware.IdentityFrom(c)
	resp, err := h.service.List(c.Request.Context(), ident.ID, ident.Role, ListQuery{
		Limit:       limit,
		Offset:      offset,
		SearchInput: c.Query("searchInput"),
	})
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetByID(c *gin.Context) {
	p, err := h.service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) Update(c *gin.Context) {
	var req UpdateProyectoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	p, err := h.service.Update(c.Request.Context(), ident.ID, c.Param("id"), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	if err := h.service.Delete(c.Request.Context(), ident.ID, c.Param("id")); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) Asignar(c *gin.Context) {
	var req AsignarUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	m, err := h.service.AsignarUsuario(c.Request.Context(), ident.ID, c.Param("id"), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *handler) Desasignar(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	err := h.service.DesasignarUsuario(c.Request.Context(), ident.ID, c.Param("id"), c.Param("userId"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) Miembros(c *gin.Context) {
	miembros, err := h.service.Miembros(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, miembros)
}

func (h *handler) MisProyectos(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	rows, err := h.service.MisProyectos(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, rows)
}
