package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BenjiKandl/apertif/pkg/logger"
)

// HealthCheck is a named readiness probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	service string
	checks  []HealthCheck
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(service string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{service: service, checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /ready by running every probe
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	ready := true
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			logger.Get().Warn("Readiness check failed", zap.String("check", hc.Name), zap.Error(err))
			checks[hc.Name] = "unhealthy"
			ready = false
			continue
		}
		checks[hc.Name] = "healthy"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
