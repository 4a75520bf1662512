// Package http assembles the REST API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodaudit/internal/platform/metrics"
	"foodaudit/internal/platform/middleware"
)

// RouterConfig collects everything the router mounts.
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.JWTValidator

	Audits   *AuditHandler
	Auditors *AuditorHandler
	Reports  *ReportsHandler
	Auth     *AuthHandler

	// Health reports readiness of backing services; nil means always ok.
	Health func() error
}

// NewRouter builds the chi router: operational endpoints unauthenticated,
// login/registration public, everything else behind bearer auth.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.Auth != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			cfg.Auth.Register(r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		if cfg.Validator != nil {
			r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		}
		cfg.Audits.Register(r)
		cfg.Auditors.Register(r)
		if cfg.Reports != nil {
			cfg.Reports.Register(r)
		}
	})

	return r
}
