// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/models"
)

// seasonalDays is the length of the generated corpus used when the
// database has too little weather history.
const seasonalDays = 365

// Store reads the training corpora. It is satisfied by *database.DB.
type Store interface {
	AllCampsites(ctx context.Context) ([]models.Campsite, error)
	AllWeather(ctx context.Context) ([]models.WeatherObservation, error)
}

// RecommenderTrainer is satisfied by *recommend.Recommender.
type RecommenderTrainer interface {
	Retrain(ctx context.Context, campsites []models.Campsite) error
}

// ForecasterTrainer is satisfied by *forecast.Forecaster.
type ForecasterTrainer interface {
	Retrain(ctx context.Context, history []models.WeatherObservation) error
}

// SeasonalSource generates a synthetic corpus. It is satisfied by
// *weather.Provider.
type SeasonalSource interface {
	Seasonal(days int) []models.WeatherObservation
}

// Trainer rebuilds both models from the database.
type Trainer struct {
	store       Store
	recommender RecommenderTrainer
	forecaster  ForecasterTrainer
	seasonal    SeasonalSource
	minHistory  int
	logger      zerolog.Logger

	// onTrained runs after a successful retrain, e.g. to clear caches.
	onTrained func()
}

// NewTrainer creates a trainer. minHistory is the number of stored weather
// rows required before the forecaster trains on real data.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrainer(store Store, rec RecommenderTrainer, fc ForecasterTrainer, seasonal SeasonalSource, minHistory int, logger zerolog.Logger) *Trainer {
	return &Trainer{
		store:       store,
		recommender: rec,
		forecaster:  fc,
		seasonal:    seasonal,
		minHistory:  minHistory,
		logger:      logger.With().Str("component", "training").Logger(),
	}
}

// OnTrained registers fn to run after any successful retrain.
func (t *Trainer) OnTrained(fn func()) {
	t.onTrained = fn
}

// Result reports the outcome of Train per model.
type Result struct {
	Recommender error
	Forecaster  error
}

// Err joins the per-model errors.
func (r Result) Err() error {
	return errors.Join(r.Recommender, r.Forecaster)
}

// Train retrains both models. A failure in one does not stop the other.
func (t *Trainer) Train(ctx context.Context) Result {
	res := Result{
		Recommender: t.TrainRecommender(ctx),
		Forecaster:  t.TrainForecaster(ctx),
	}
	if err := res.Err(); err != nil {
		t.logger.Warn().Err(err).Msg("Training finished with errors")
	}
	return res
}

// TrainRecommender fits the recommender on every stored campsite.
func (t *Trainer) TrainRecommender(ctx context.Context) error {
	campsites, err := t.store.AllCampsites(ctx)
	if err != nil {
		return fmt.Errorf("load campsites: %w", err)
	}
	if err := t.recommender.Retrain(ctx, campsites); err != nil {
		return err
	}
	t.trained()
	return nil
}

// TrainForecaster fits the weather ensembles on stored history, or on a
// seasonal synthetic year when fewer than minHistory rows are stored.
func (t *Trainer) TrainForecaster(ctx context.Context) error {
	history, err := t.store.AllWeather(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Stored weather unavailable, training on seasonal data")
		history = nil
	}

	source := "database"
	if len(history) < t.minHistory {
		source = "seasonal"
		history = t.seasonal.Seasonal(seasonalDays)
	}

	start := time.Now()
	if err := t.forecaster.Retrain(ctx, history); err != nil {
		return err
	}
	t.logger.Info().
		Str("source", source).
		Int("observations", len(history)).
		Dur("duration", time.Since(start)).
		Msg("Forecaster retrained")
	t.trained()
	return nil
}

func (t *Trainer) trained() {
	if t.onTrained != nil {
		t.onTrained()
	}
}
