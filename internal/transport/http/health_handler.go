package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/Alexico1969/project-stem-grader/pkg/contracts"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	build     contracts.VersionInfo
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		build:     contracts.GetVersionInfo(),
		startedAt: time.Now(),
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": h.build.Version,
		"build":   h.build,
		"uptime":  time.Since(h.startedAt).String(),
	})
}
