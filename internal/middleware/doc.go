// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package middleware provides the HTTP middleware shared by every route.
//
// All middleware have the chi signature func(http.Handler) http.Handler:
//   - RequestID: X-Request-ID propagation into the logging context
//   - PrometheusMetrics: request counters and latency labeled by route pattern
//   - Compression: gzip for clients sending Accept-Encoding: gzip
//
// CORS and rate limiting come from go-chi/cors and go-chi/httprate and are
// configured in internal/api.
package middleware
