// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/spatial/internal/config"
)

// Router wires the handler into a chi router.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics)
	r.Use(Actor)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed", nil, nil)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(router.cfg.RateLimitRequests, router.cfg.RateLimitWindow))
		if router.cfg.Timeout > 0 {
			r.Use(chimiddleware.Timeout(router.cfg.Timeout))
		}

		r.Route("/maps", router.handler.maps.routes)
		r.Route("/layers", router.handler.layers.routes)
		r.Post("/repair", router.handler.RepairAll)
	})

	return r
}
