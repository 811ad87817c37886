// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/campkit/internal/models"
)

// Model is the persisted recommender artifact: frozen normalization
// parameters plus the index built from them.
type Model struct {
	Normalizer *Normalizer
	Index      *Index
	TrainedAt  time.Time
}

// Train fits a normalizer over campsites and indexes the normalized vectors.
func Train(ctx context.Context, campsites []models.Campsite) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(campsites) == 0 {
		return nil, &EmptyCorpusError{}
	}

	vectors := make([]FeatureVector, len(campsites))
	ids := make([]int, len(campsites))
	for i := range campsites {
		vectors[i] = FeaturesOf(&campsites[i])
		ids[i] = campsites[i].ID
	}

	norm, err := FitNormalizer(vectors)
	if err != nil {
		return nil, fmt.Errorf("fit normalizer: %w", err)
	}

	normalized := make([]FeatureVector, len(vectors))
	for i, v := range vectors {
		normalized[i] = norm.Transform(v)
	}

	index, err := BuildIndex(normalized, ids)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &Model{
		Normalizer: norm,
		Index:      index,
		TrainedAt:  time.Now().UTC(),
	}, nil
}

// usable reports whether a decoded model has both halves.
func (m *Model) usable() bool {
	return m != nil && m.Normalizer != nil && m.Index != nil && m.Index.Len() > 0
}
