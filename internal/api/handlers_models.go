// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/models"
)

// Model status values in RetrainResponse.
const (
	modelTrained = "trained"
	modelFailed  = "failed"
)

// ListModels returns metadata for every stored artifact.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list models", err)
		return
	}
	respondData(w, http.StatusOK, list, start)
}

// RetrainModels retrains both models synchronously. It answers 500 only
// when neither model could be trained.
func (h *Handler) RetrainModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res := h.trainer.Train(r.Context())
	if h.cache != nil {
		h.cache.Invalidate()
	}

	resp := models.RetrainResponse{
		Recommender: modelTrained,
		Forecaster:  modelTrained,
	}
	if res.Recommender != nil {
		resp.Recommender = modelFailed
	}
	if res.Forecaster != nil {
		resp.Forecaster = modelFailed
	}

	if res.Recommender != nil && res.Forecaster != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Retraining failed", res.Err())
		return
	}
	if err := res.Err(); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Partial retrain")
	} else {
		logging.Ctx(r.Context()).Info().Dur("duration", time.Since(start)).Msg("Models retrained")
	}
	respondData(w, http.StatusOK, resp, start)
}
