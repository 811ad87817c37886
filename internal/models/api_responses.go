// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package models

import (
	"time"
)

// APIResponse is the envelope for every JSON response.
//
//	{
//	  "status": "success",
//	  "data": {"campsite_id": 3, "predictions": [...]},
//	  "metadata": {"timestamp": "2026-05-01T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Degraded marks results sampled from fallback values instead of a model.
	Degraded bool `json:"degraded,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RecommendationResponse lists recommended campsites in rank order.
type RecommendationResponse struct {
	UserID    int        `json:"user_id"`
	Campsites []Campsite `json:"campsites"`
}

// WeatherForecastResponse is the body of the weather endpoint.
type WeatherForecastResponse struct {
	CampsiteID  int             `json:"campsite_id"`
	Predictions []ForecastPoint `json:"predictions"`
}

// RetrainResponse reports a synchronous retrain.
type RetrainResponse struct {
	Recommender string `json:"recommender"`
	Forecaster  string `json:"forecaster"`
}
