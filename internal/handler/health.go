package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/searchai/searchai/internal/models"
)

const version = "1.0.0"

// HealthChecker is implemented by services that can report connectivity.
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// HealthHandler handles GET /health with optional dependency checks. Checks
// are registered by name; a nil checker reports the dependency as disabled.
type HealthHandler struct {
	names    []string
	checkers map[string]HealthChecker
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checkers: make(map[string]HealthChecker)}
}

// AddCheck registers a dependency check. checker may be nil (a typed nil is
// also treated as disabled by the caller passing nil explicitly).
func (h *HealthHandler) AddCheck(name string, checker HealthChecker) {
	h.names = append(h.names, name)
	h.checkers[name] = checker
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Short timeout so health checks don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, name := range h.names {
		checker := h.checkers[name]
		if checker == nil {
			checks[name] = "disabled"
			continue
		}
		if err := checker.TestConnection(ctx); err != nil {
			checks[name] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks[name] = "ok"
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
