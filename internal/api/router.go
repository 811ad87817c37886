// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/middleware"
)

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mwConfig may be nil for defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		auth:          auth.NewMiddleware(handler.jwt, unauthorized),
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed", nil)
	})

	r.Get("/health", router.handler.Health)
	r.Get("/health/live", router.handler.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.Compression)

		// Credential exchange gets a stricter limit.
		r.With(router.chiMiddleware.RateLimitAuth()).Post("/token", router.handler.Token)
		r.With(router.chiMiddleware.RateLimitAuth()).Post("/users", router.handler.CreateUser)

		r.Get("/campsites", router.handler.ListCampsites)
		r.Get("/campsites/{id}", router.handler.GetCampsite)
		r.Get("/weather/{campsite_id}", router.handler.WeatherForecast)
		r.Get("/models", router.handler.ListModels)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.Authenticate)

			r.Get("/users/me", router.handler.CurrentUser)
			r.Get("/users/me/preferences", router.handler.GetPreferences)
			r.Put("/users/me/preferences", router.handler.UpdatePreferences)

			r.Post("/campsites", router.handler.CreateCampsite)

			r.Post("/ratings", router.handler.CreateRating)
			r.Get("/ratings", router.handler.ListRatings)

			r.Post("/trips", router.handler.CreateTrip)
			r.Get("/trips", router.handler.ListTrips)

			r.Get("/recommendations", router.handler.Recommendations)

			r.Post("/weather/{campsite_id}/observations", router.handler.AddObservations)

			r.Post("/models/retrain", router.handler.RetrainModels)
		})
	})

	return r
}
