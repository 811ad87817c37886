// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/validation"
)

// Recommendations returns campsites similar to the user's top-rated one.
//
// user_id defaults to the authenticated user; limit defaults to the
// recommender's DefaultLimit and is capped at MaxLimit. Stored preferences
// filter the neighbor list before it is truncated to limit.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := h.recommender.Config()

	callerID, _ := auth.UserIDFromContext(r.Context())
	userID, err := getIntParam(r, "user_id", callerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := getIntParam(r, "limit", cfg.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	req := RecommendationRequest{UserID: userID, Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	if req.Limit > cfg.MaxLimit {
		req.Limit = cfg.MaxLimit
	}

	ctx := r.Context()
	if _, err := h.db.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load user", err)
		return
	}

	campsites, err := h.db.AllCampsites(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load campsites", err)
		return
	}
	ratings, err := h.db.RatingsByUser(ctx, req.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load ratings", err)
		return
	}
	pref, hasPref, err := h.db.GetPreference(ctx, req.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load preferences", err)
		return
	}

	byID := make(map[int]*models.Campsite, len(campsites))
	for i := range campsites {
		byID[campsites[i].ID] = &campsites[i]
	}

	var ids []int
	if hasPref {
		ids = h.recommender.Recommend(ctx, req.UserID, campsites, ratings, cfg.MaxLimit)
	} else {
		ids = h.recommender.Recommend(ctx, req.UserID, campsites, ratings, req.Limit)
	}

	picked := make([]models.Campsite, 0, req.Limit)
	for _, id := range ids {
		if len(picked) == req.Limit {
			break
		}
		site, ok := byID[id]
		if !ok {
			continue
		}
		if hasPref && !pref.Allows(site) {
			continue
		}
		picked = append(picked, *site)
	}

	logging.Ctx(ctx).Debug().
		Int("user_id", req.UserID).
		Int("ratings", len(ratings)).
		Int("returned", len(picked)).
		Bool("preferences", hasPref).
		Msg("Recommendations served")

	respondData(w, http.StatusOK, models.RecommendationResponse{
		UserID:    req.UserID,
		Campsites: picked,
	}, start)
}
