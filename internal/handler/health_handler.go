package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodrec/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	provider port.CandidateProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(provider port.CandidateProvider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ts": time.Now().Unix()})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.provider.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "catalog not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
