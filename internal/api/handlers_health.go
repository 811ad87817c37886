// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/models"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	Models        int     `json:"models"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// Health pings the database and counts stored artifacts. It answers 503
// when the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:        "healthy",
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Database = "unreachable"
		respondJSON(w, http.StatusServiceUnavailable, healthEnvelope(status, start))
		return
	}
	if list, err := h.store.List(ctx); err == nil {
		status.Models = len(list)
	}

	respondJSON(w, http.StatusOK, healthEnvelope(status, start))
}

func healthEnvelope(status HealthStatus, start time.Time) *models.APIResponse {
	return &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}
}
