package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horas-backend/internal/utils"
)

type Handler interface {
	Check(c *gin.Context)
}

type handler struct {
	checker *utils.HealthChecker
}

func NewHandler(checker *utils.HealthChecker) Handler {
	return &handler{checker: checker}
}

func (h *handler) Check(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
