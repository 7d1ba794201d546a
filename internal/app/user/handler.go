package user

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
	ListAll(c *gin.Context)
	GetByID(c *gin.Context)
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
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	u, err := h.service.Create(c.Request.Context(), ident.ID, req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.service.List(c.Request.Context(), ListQuery{
		Limit:       limit,
		Offset:      offset,
		SearchInput: c.Query("searchInput"),
		SortField:   c.Query("sortField"),
		SortOrder:   c.Query("sortOrder"),
	})
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListAll(c *gin.Context) {
	users, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) GetByID(c *gin.Context) {
	u, err := h.service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ident, _ := middleware.IdentityFrom(c)
	u, err := h.service.Update(c.Request.Context(), ident.ID, c.Param("id"), req)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	if err := h.service.Delete(c.Request.Context(), ident.ID, c.Param("id")); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
