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
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/validation"
)

// defaultCampsiteLimit is the page size when the caller omits limit.
const defaultCampsiteLimit = 100

// CreateCampsite stores a new campsite. The recommender picks it up on the
// next retrain.
func (h *Handler) CreateCampsite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CampsiteCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	site := req.ToCampsite()
	created, err := h.db.CreateCampsite(r.Context(), &site)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create campsite", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("campsite_id", created.ID).Msg("Campsite created")
	respondData(w, http.StatusCreated, created, start)
}

// ListCampsites returns a page of campsites ordered by id.
func (h *Handler) ListCampsites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	skip, err := getIntParam(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := getIntParam(r, "limit", defaultCampsiteLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	req := CampsiteListRequest{Skip: skip, Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	sites, err := h.db.ListCampsites(r.Context(), req.Skip, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list campsites", err)
		return
	}
	respondData(w, http.StatusOK, sites, start)
}

// GetCampsite returns one campsite.
func (h *Handler) GetCampsite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := getIntPathParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	site, ok := h.loadCampsite(w, r, id)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, site, start)
}

// loadCampsite fetches id, writing a 404 or 500 and returning false on
// failure.
func (h *Handler) loadCampsite(w http.ResponseWriter, r *http.Request, id int) (*models.Campsite, bool) {
	site, err := h.db.GetCampsite(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Campsite not found", nil)
		return nil, false
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load campsite", err)
		return nil, false
	}
	return site, true
}
