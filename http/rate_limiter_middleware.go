package http

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
)

// RateLimitMiddleware limits next per remote IP and answers 429 with a
// Retry-After header once a client's bucket is empty.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}

		allowed, retryAfter := limiter.Allow(client)
		if !allowed {
			logger.Debug("rate limit exceeded", slog.String("client", client), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeError(w, logger, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
