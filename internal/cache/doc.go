// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package cache provides a generic TTL-bounded LRU cache and the forecast
// cache built on it.
//
// Forecast ensembles are deterministic for a given model and history, but
// walking a hundred trees per variable per day adds up under load. The API
// caches each response under ForecastKey(campsite, days, issue date) and
// clears the cache after a retrain.
package cache
