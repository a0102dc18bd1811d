// Package httptransport assembles the HTTP surface: shared middleware,
// operational endpoints and the per-module handlers.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetgov/pkg/platform/middleware/admin"
	authmw "assetgov/pkg/platform/middleware/auth"
	"assetgov/pkg/platform/middleware/metadata"
	"assetgov/pkg/platform/middleware/request"
	"assetgov/pkg/platform/middleware/requesttime"
)

// Module is a handler that mounts its own routes.
type Module interface {
	Register(r chi.Router)
}

// RouterConfig carries everything NewRouter wires together. Modules are
// mounted behind bearer authentication.
type RouterConfig struct {
	Logger     *slog.Logger
	Validator  authmw.TokenValidator
	Tokens     TokenIssuer
	AdminToken string
	Health     []HealthCheck
	Modules    []Module
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", NewHealthHandler(cfg.Logger, cfg.Health...).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.Tokens != nil {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.Logger))
			NewTokenHandler(cfg.Tokens, cfg.Logger).Register(r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.Validator, cfg.Logger))
		for _, m := range cfg.Modules {
			m.Register(r)
		}
	})
	return r
}
