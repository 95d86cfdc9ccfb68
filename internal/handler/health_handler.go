package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snaplinkhq/snaplink/internal/domain"
)

type HealthHandler struct {
	clock domain.Clock
}

func NewHealthHandler(clock domain.Clock) *HealthHandler {
	return &HealthHandler{clock: clock}
}

// Health handles GET /health. The store is in-process, so a responding
// server is a healthy server.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.clock.Now().Format(time.RFC3339),
	})
}
