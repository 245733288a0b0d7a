// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/middleware"
	"github.com/tomtom215/reelmatch/internal/models"
)

// compressionLevel is the gzip/deflate level for page and JSON responses.
const compressionLevel = 5

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil cfg uses the middleware defaults.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwCfg = ChiMiddlewareConfigFromSecurity(cfg.Security)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwCfg),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.With(chimiddleware.Compress(compressionLevel)).Get("/", router.handler.Index)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(compressionLevel))
			r.Get("/movies", router.handler.Movies)
			r.Get("/recommend", router.handler.Recommend)
			r.Get("/posters/{id}", router.handler.Poster)
		})

		// No compression: the handler hijacks the connection.
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).
			Get("/ws/recommend", router.handler.StreamRecommend)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
