// Package httptransport assembles the HTTP surface: middleware chain, public
// API routes, admin routes, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fieldshandler "fieldgate/internal/fields/handler"
	"fieldgate/internal/platform/metrics"
	"fieldgate/internal/platform/middleware"
	settingshandler "fieldgate/internal/settings/handler"
	verificationhandler "fieldgate/internal/verification/handler"
)

// RouterDeps carries everything the router needs. All handlers are required;
// the validator gates the authenticated API group.
type RouterDeps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    middleware.JWTValidator
	AdminKeyHash string

	Fields       *fieldshandler.Handler
	Verification *verificationhandler.Handler
	Settings     *settingshandler.Handler
}

// NewRouter wires the full middleware chain and mounts every handler group.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Device)
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated API surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Fields.Register(r)
		deps.Verification.Register(r)
	})

	// Admin surface, gated by the static admin key.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAdminKey(deps.AdminKeyHash, deps.Logger))
		deps.Settings.Register(r)
	})

	return r
}
