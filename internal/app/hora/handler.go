package hora

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
	"horas-backend/internal/middleware"
)

type Handler interface {
	Create(c *gin.Context)
	MisHoras(c *gin.Context)
	MisNotificaciones(c *gin.Context)
	Export(c *gin.Context)
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
	var req CreateHoraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	created, err := h.service.Create(c.Request.Context(), ident.ID, ident.Role, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) MisHoras(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	horas, err := h.service.MisHoras(c.Request.Context(), ident.ID, ident.Role, ListQuery{
		UserID: c.Query("userId"),
		Desde:  c.Query("desde"),
		Hasta:  c.Query("hasta"),
	})
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, horas)
}

func (h *handler) MisNotificaciones(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	resp, err := h.service.MisNotificaciones(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) Export(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	file, err := h.service.ExportExcel(c.Request.Context(), ident.ID, ident.Role, ExportQuery{
		Desde:  c.Query("desde"),
		Hasta:  c.Query("hasta"),
		UserID: c.Query("userId"),
		Theme:  c.Query("theme"),
	})
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.MimeType, file.Content)
}

func (h *handler) Update(c *gin.Context) {
	var req UpdateHoraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	updated, err := h.service.Update(c.Request.Context(), ident.ID, ident.Role, c.Param("id"), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	if err := h.service.Delete(c.Request.Context(), ident.ID, ident.Role, c.Param("id")); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
