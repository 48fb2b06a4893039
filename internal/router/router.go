// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// InstaPlan API. Generation routes sit behind a per-client rate limit.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"instaplan/internal/handlers"
	"instaplan/internal/middleware"
)

// Options configures the cross-cutting parts of the router.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// Limiter counts generation requests per client; nil disables the limit.
	Limiter middleware.Counter

	// RetryAfter is advertised on 429 responses.
	RetryAfter time.Duration
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, gen *handlers.Generate, campaigns *handlers.Campaigns, calendar *handlers.Calendar, providers *handlers.Providers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Generation calls upstream providers and is rate limited.
		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(middleware.RateLimit(opts.Limiter, opts.RetryAfter))
			}
			r.Post("/generate", gen.Campaign)
			r.Post("/generate-image", gen.Image)
			r.Post("/generate-video", gen.Video)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", campaigns.List)
			r.Post("/", campaigns.Create)
			r.Get("/{id}", campaigns.Get)
		})

		r.Route("/calendar/events", func(r chi.Router) {
			r.Get("/", calendar.List)
			r.Post("/", calendar.Create)
			r.Get("/{id}", calendar.Get)
			r.Patch("/{id}", calendar.UpdateStatus)
			r.Delete("/{id}", calendar.Delete)
		})

		r.Get("/providers", providers.Status)
		r.Put("/providers/active", providers.SetActive)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
