// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"sync"
	"time"

	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/cache"
	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/forecast"
	"github.com/tomtom215/campkit/internal/modelstore"
	"github.com/tomtom215/campkit/internal/recommend"
	"github.com/tomtom215/campkit/internal/training"
	"github.com/tomtom215/campkit/internal/weather"
)

// Dependencies are the components the HTTP handlers drive.
type Dependencies struct {
	DB          *database.DB
	Store       *modelstore.Store
	Recommender *recommend.Recommender
	Forecaster  *forecast.Forecaster
	Weather     *weather.Provider
	Trainer     *training.Trainer
	JWT         *auth.JWTManager

	// Cache is optional; nil disables forecast caching.
	Cache *cache.ForecastCache

	// PasswordPolicy applies to registration. Zero value uses the default.
	PasswordPolicy *auth.PasswordPolicy
}

// Handler serves every API route.
type Handler struct {
	db          *database.DB
	store       *modelstore.Store
	recommender *recommend.Recommender
	forecaster  *forecast.Forecaster
	weather     *weather.Provider
	trainer     *training.Trainer
	jwt         *auth.JWTManager
	cache       *cache.ForecastCache
	policy      auth.PasswordPolicy

	startTime time.Time

	clockMu sync.RWMutex
	now     func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(deps *Dependencies) *Handler {
	policy := auth.DefaultPasswordPolicy()
	if deps.PasswordPolicy != nil {
		policy = *deps.PasswordPolicy
	}
	return &Handler{
		db:          deps.DB,
		store:       deps.Store,
		recommender: deps.Recommender,
		forecaster:  deps.Forecaster,
		weather:     deps.Weather,
		trainer:     deps.Trainer,
		jwt:         deps.JWT,
		cache:       deps.Cache,
		policy:      policy,
		startTime:   time.Now(),
		now:         time.Now,
	}
}

// SetClock replaces the clock used for forecast cache keys.
func (h *Handler) SetClock(now func() time.Time) {
	h.clockMu.Lock()
	defer h.clockMu.Unlock()
	h.now = now
}

func (h *Handler) clock() time.Time {
	h.clockMu.RLock()
	now := h.now
	h.clockMu.RUnlock()
	return now()
}
