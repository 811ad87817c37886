// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/campkit/internal/models"
)

// CampsiteListRequest holds the validated query for GET /campsites.
type CampsiteListRequest struct {
	Skip  int `json:"skip" validate:"min=0,max=1000000"`
	Limit int `json:"limit" validate:"min=1,max=1000"`
}

// RecommendationRequest holds the validated query for GET /recommendations.
type RecommendationRequest struct {
	UserID int `json:"user_id" validate:"min=1"`
	Limit  int `json:"limit" validate:"min=1"`
}

// ForecastRequest holds the validated path and query for GET /weather/{id}.
type ForecastRequest struct {
	CampsiteID int `json:"campsite_id" validate:"min=1"`
	DaysAhead  int `json:"days_ahead" validate:"min=0"`
}

// ObservationBatch is the body of POST /weather/{id}/observations.
type ObservationBatch struct {
	Observations []models.WeatherObservation `json:"observations" validate:"required,min=1,max=3660,dive"`
}

// paramError reports a malformed query or path parameter.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("parameter %q must be an integer, got %q", e.name, e.value)
}

// getIntParam reads an integer query parameter, returning def when absent.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

// getIntPathParam reads an integer chi URL parameter.
func getIntPathParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}
