package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	service   string
	logger    *slog.Logger
	startTime time.Time
	checks    map[string]ReadinessCheck
}

func NewHealthHandler(service string, logger *slog.Logger, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		service:   service,
		logger:    logger,
		startTime: time.Now(),
		checks:    checks,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

type readinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz runs every registered check and answers 503 if any fails.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			results[name] = err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, h.logger, code, readinessResponse{
		Status:  status,
		Service: h.service,
		Checks:  results,
	})
}
