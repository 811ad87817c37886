// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/validation"
)

// GetPreferences returns the current user's recommendation filters, or the
// permissive defaults when none are stored.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	pref, _, err := h.db.GetPreference(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load preferences", err)
		return
	}
	respondData(w, http.StatusOK, pref, start)
}

// UpdatePreferences merges the request body over the stored preferences.
// Omitted fields keep their value; a JSON null clears an elevation bound.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	pref, _, err := h.db.GetPreference(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load preferences", err)
		return
	}
	if err := decodeJSON(r, &pref); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	pref.UserID = user.ID

	if verr := validation.ValidateStruct(&pref); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	if err := h.db.UpsertPreference(r.Context(), &pref); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to save preferences", err)
		return
	}
	respondData(w, http.StatusOK, pref, start)
}
