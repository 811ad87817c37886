// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Ensemble is a bagged forest of regression trees for one weather variable.
type Ensemble struct {
	Variable    Variable
	Trees       []Tree
	SampleCount int
	TrainedAt   time.Time
}

// FitEnsemble grows cfg.Trees trees, each on a bootstrap sample of the
// inputs drawn from a source seeded by cfg.Seed and the tree index.
//
//nolint:gocritic // cfg is small and read-only
func FitEnsemble(ctx context.Context, v Variable, features []CalendarFeature, targets []float64, cfg Config) (*Ensemble, error) {
	if len(features) == 0 {
		return nil, ErrEmptyHistory
	}
	if len(features) != len(targets) {
		return nil, fmt.Errorf("fit %s: %d features but %d targets", v, len(features), len(targets))
	}

	x := make([][featureCount]float64, len(features))
	for i, f := range features {
		x[i] = f.vector()
	}

	trees := cfg.Trees
	if trees < 1 {
		trees = 1
	}

	e := &Ensemble{
		Variable:    v,
		Trees:       make([]Tree, trees),
		SampleCount: len(features),
		TrainedAt:   time.Now().UTC(),
	}

	sample := make([]int, len(features))
	for t := 0; t < trees; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng := rand.New(rand.NewSource(cfg.Seed + int64(t)*7919)) //nolint:gosec // reproducible bootstrap sampling
		for i := range sample {
			sample[i] = rng.Intn(len(features))
		}
		e.Trees[t] = growTree(x, targets, sample, cfg.MaxDepth, cfg.MinLeaf)
	}

	return e, nil
}

// Predict averages the trees' predictions for f.
func (e *Ensemble) Predict(f CalendarFeature) float64 {
	x := f.vector()
	var sum float64
	for i := range e.Trees {
		sum += e.Trees[i].Predict(x)
	}
	return sum / float64(len(e.Trees))
}

// PredictAll predicts every feature in order.
func (e *Ensemble) PredictAll(features []CalendarFeature) []float64 {
	out := make([]float64, len(features))
	for i, f := range features {
		out[i] = e.Predict(f)
	}
	return out
}

func (e *Ensemble) usable() bool {
	return e != nil && len(e.Trees) > 0 && len(e.Trees[0].Nodes) > 0
}
