// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/streamatlas/internal/middleware"
)

// Router wires handlers to routes with the middleware stack.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler and middleware
// configuration.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts func(http.HandlerFunc) http.HandlerFunc middleware
// to Chi's func(http.Handler) http.Handler form.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // Global so OPTIONS preflight always answers

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/filters/options", router.handler.FilterOptions)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/platform-count", router.handler.AnalyticsPlatformCount)
			r.Get("/movie-count", router.handler.AnalyticsMovieCount)
			r.Get("/tv-count", router.handler.AnalyticsTVCount)
			r.Get("/overview", router.handler.AnalyticsOverview)
			r.Get("/title-counts", router.handler.AnalyticsTitleCounts)
			r.Get("/quality", router.handler.AnalyticsQuality)
			r.Get("/top-genres", router.handler.AnalyticsTopGenres)
			r.Get("/top-countries", router.handler.AnalyticsTopCountries)
			r.Get("/recent", router.handler.AnalyticsRecent)
			r.Get("/diversity", router.handler.AnalyticsDiversity)
			r.Get("/change", router.handler.AnalyticsChange)
		})

		r.Route("/ingest", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitIngest()).Post("/trigger", router.handler.IngestTrigger)
			r.Get("/status", router.handler.IngestStatus)
		})
	})

	// Prometheus exposition, outside the rate-limited API group so a
	// scraper can never be throttled into missing samples.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
