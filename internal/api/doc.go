// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package api exposes campkit over HTTP using the chi router.
//
// Every JSON response uses the models.APIResponse envelope:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//	{"status":"error","data":null,"metadata":{...},"error":{"code":"NOT_FOUND","message":"..."}}
//
// Public routes:
//
//	GET  /health, /health/live     liveness and database readiness
//	GET  /metrics                  Prometheus exposition
//	POST /api/v1/token             exchange username/password for a bearer JWT
//	POST /api/v1/users             register
//	GET  /api/v1/campsites         list (skip, limit)
//	GET  /api/v1/campsites/{id}    fetch one
//	GET  /api/v1/weather/{id}      forecast (days_ahead)
//	GET  /api/v1/models            trained artifact metadata
//
// Routes under the authenticated group require "Authorization: Bearer <jwt>":
// the current user and their preferences, campsite creation, ratings, trips,
// recommendations, weather observation uploads and synchronous retraining.
//
// Limits come from go-chi/httprate keyed by client IP; CORS is handled by
// go-chi/cors. Request metrics are labeled by chi route pattern.
package api
