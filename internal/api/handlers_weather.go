// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/cache"
	"github.com/tomtom215/campkit/internal/forecast"
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/validation"
)

// WeatherForecast predicts daily weather for a campsite starting tomorrow.
func (h *Handler) WeatherForecast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := h.forecaster.Config()

	id, err := getIntPathParam(r, "campsite_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	days, err := getIntParam(r, "days_ahead", cfg.DefaultDays)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	req := ForecastRequest{CampsiteID: id, DaysAhead: days}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	if req.DaysAhead > cfg.MaxDays {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("days_ahead must be at most %d", cfg.MaxDays),
			Details: map[string]interface{}{"field": "days_ahead", "max": cfg.MaxDays},
		})
		return
	}

	site, ok := h.loadCampsite(w, r, req.CampsiteID)
	if !ok {
		return
	}

	key := cache.ForecastKey(site.ID, req.DaysAhead, models.NewDate(h.clock()))
	if h.cache != nil {
		if points, hit := h.cache.Get(key); hit {
			h.respondForecast(w, site.ID, points, start, true, false)
			return
		}
	}

	history, source := h.weather.HistoryFor(r.Context(), site)
	points, outcome, err := h.forecaster.ForecastWithOutcome(r.Context(), history, req.DaysAhead)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidArgument) {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to forecast weather", err)
		return
	}

	// Sampled fallback values are never cached so the next request retries
	// the ensembles.
	degraded := outcome == metrics.OutcomeFallback
	if h.cache != nil && !degraded {
		h.cache.Put(key, points)
	}

	logging.Ctx(r.Context()).Debug().
		Int("campsite_id", site.ID).
		Int("days_ahead", req.DaysAhead).
		Str("history_source", source).
		Str("outcome", outcome).
		Int("history_rows", len(history)).
		Msg("Forecast served")

	h.respondForecast(w, site.ID, points, start, false, degraded)
}

func (h *Handler) respondForecast(w http.ResponseWriter, campsiteID int, points []models.ForecastPoint, start time.Time, cached, degraded bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.WeatherForecastResponse{
			CampsiteID:  campsiteID,
			Predictions: points,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
			Degraded:    degraded,
		},
	})
}

// AddObservations stores daily weather rows for a campsite. Rows for a date
// that already exists replace it.
func (h *Handler) AddObservations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := getIntPathParam(r, "campsite_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	site, ok := h.loadCampsite(w, r, id)
	if !ok {
		return
	}

	var batch ObservationBatch
	if err := decodeJSON(r, &batch); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	for i := range batch.Observations {
		batch.Observations[i].CampsiteID = site.ID
	}
	if verr := validation.ValidateStruct(&batch); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	if err := h.db.InsertWeather(r.Context(), batch.Observations); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store observations", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("campsite_id", site.ID).
		Int("rows", len(batch.Observations)).
		Msg("Weather observations stored")

	respondData(w, http.StatusCreated, map[string]int{
		"campsite_id": site.ID,
		"stored":      len(batch.Observations),
	}, start)
}
