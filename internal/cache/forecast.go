// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package cache

import (
	"fmt"
	"time"

	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
)

// ForecastCache holds forecast responses keyed by campsite, horizon and
// issue date, so a forecast is recomputed at most once per day per request
// shape until it expires or a retrain clears the cache.
type ForecastCache struct {
	lru *LRU[[]models.ForecastPoint]
}

// NewForecastCache creates a forecast cache.
func NewForecastCache(capacity int, ttl time.Duration) *ForecastCache {
	return &ForecastCache{lru: NewLRU[[]models.ForecastPoint](capacity, ttl)}
}

// ForecastKey builds the cache key for a forecast issued on day.
func ForecastKey(campsiteID, daysAhead int, day models.Date) string {
	return fmt.Sprintf("%d:%d:%s", campsiteID, daysAhead, day)
}

// Get returns a copy of the cached forecast and records a hit or miss.
func (f *ForecastCache) Get(key string) ([]models.ForecastPoint, bool) {
	points, ok := f.lru.Get(key)
	if !ok {
		metrics.ForecastCacheMisses.Inc()
		return nil, false
	}
	metrics.ForecastCacheHits.Inc()
	return append([]models.ForecastPoint(nil), points...), true
}

// Put stores a copy of points under key.
func (f *ForecastCache) Put(key string, points []models.ForecastPoint) {
	f.lru.Add(key, append([]models.ForecastPoint(nil), points...))
}

// Invalidate drops every cached forecast.
func (f *ForecastCache) Invalidate() {
	f.lru.Clear()
}

// CleanupExpired drops expired forecasts.
func (f *ForecastCache) CleanupExpired() int {
	return f.lru.CleanupExpired()
}

// Len returns the number of cached forecasts.
func (f *ForecastCache) Len() int {
	return f.lru.Len()
}
