// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/validation"
)

// CreateRating records the current user's score for a campsite.
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.RatingCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	rating, err := h.db.CreateRating(r.Context(), user.ID, &req)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Campsite not found", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create rating", err)
		return
	}
	respondData(w, http.StatusCreated, rating, start)
}

// ListRatings returns the current user's ratings.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	ratings, err := h.db.RatingsByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list ratings", err)
		return
	}
	respondData(w, http.StatusOK, ratings, start)
}

// CreateTrip plans a stay at a campsite for the current user.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req models.TripCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	if _, ok := h.loadCampsite(w, r, req.CampsiteID); !ok {
		return
	}

	trip, err := h.db.CreateTrip(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create trip", err)
		return
	}
	respondData(w, http.StatusCreated, trip, start)
}

// ListTrips returns the current user's trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	trips, err := h.db.TripsByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list trips", err)
		return
	}
	respondData(w, http.StatusOK, trips, start)
}
