package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/apperr"
)

type Handler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
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

func (h *handler) GetByID(c *gin.Context) {
	entry, err := h.service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, entry)
}
