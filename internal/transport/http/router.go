// Package httptransport assembles the HTTP surface: middleware chain, domain
// handlers, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seatcheck/internal/platform/metrics"
	"seatcheck/internal/platform/middleware"
	"seatcheck/internal/transport/http/shared"
)

// Registrar is implemented by each domain handler.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries the cross-cutting pieces of the middleware chain.
// A nil RateLimit skips limiting; a nil Health makes /healthz report ok
// unconditionally.
type RouterConfig struct {
	JWTSigningKey string
	RateLimit     func(http.Handler) http.Handler
	Health        func(ctx context.Context) error
}

// NewRouter builds the full router: recovery first, then request identity
// and logging, then the domain handlers. The identity middleware annotates
// but never rejects; record verdicts carry the auditor when one is present.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, cfg RouterConfig, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Identity(cfg.JWTSigningKey, logger))
	r.Use(middleware.Logger(logger))
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req.Context()); err != nil {
				logger.WarnContext(req.Context(), "health check failed", "error", err)
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
