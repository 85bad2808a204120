// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/movierec/internal/middleware"
)

// Router binds the handler to its routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	slowRequest   time.Duration
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		slowRequest:   middleware.DefaultSlowRequestThreshold,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)                         // X-Request-ID and logging context
	r.Use(chimiddleware.RealIP)                         // Extract real IP from X-Forwarded-For
	r.Use(middleware.RequestLogger(router.slowRequest)) // One line per request
	r.Use(chimiddleware.Recoverer)                      // Recover from panics
	r.Use(router.chiMiddleware.CORS())                  // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	// ========================
	// Recommendation API
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)

		r.With(router.chiMiddleware.RateLimit("/movies")).Get("/movies", router.handler.Movies)
		r.Get("/health", router.handler.Health)
		r.With(router.chiMiddleware.RateLimit("/recommend")).Post("/recommend", router.handler.Recommend)
		r.With(router.chiMiddleware.RateLimitTrain()).Get("/train", router.handler.Train)
		r.Get("/api/v1/status", router.handler.Status)
	})

	// ========================
	// Training progress stream
	// ========================
	r.With(router.chiMiddleware.RateLimit("/ws/training")).Get("/ws/training", router.handler.TrainingStream)

	// ========================
	// Observability & Docs
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
