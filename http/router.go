package http

import (
	"log/slog"
	"net/http"

	"msme-risk/metrics"
)

type RouterConfig struct {
	Risk        *RiskHandler
	Explain     *ExplanationHandler // nil leaves /risk/explain unregistered
	Health      *HealthHandler
	Metrics     *metrics.Metrics // nil disables /metrics and request metrics
	MetricsPath string
	RateLimiter *RateLimiter // nil disables rate limiting
	Logger      *slog.Logger
}

// NewRouter registers every route. Risk routes sit behind the rate limiter;
// health and metrics do not.
func NewRouter(cfg RouterConfig) http.Handler {
	limit := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimiter == nil {
			return h
		}
		return RateLimitMiddleware(cfg.RateLimiter, cfg.Logger, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/risk/score", limit(cfg.Risk.ScoreRisk))
	mux.Handle("/risk/fields", limit(cfg.Risk.ListFields))
	mux.Handle("/risk/submissions", limit(cfg.Risk.Submissions))
	mux.Handle("/risk/submissions/{id}", limit(cfg.Risk.GetSubmission))
	mux.Handle("/risk/submissions/{id}/documents/{name}", limit(cfg.Risk.DownloadDocument))
	if cfg.Explain != nil {
		mux.Handle("/risk/explain", limit(cfg.Explain.ExplainRisk))
	}

	mux.HandleFunc("GET /healthz", cfg.Health.Healthz)
	mux.HandleFunc("GET /readyz", cfg.Health.Readyz)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, cfg.Metrics.Handler())
	}

	return LoggingMiddleware(cfg.Logger, cfg.Metrics, mux)
}
