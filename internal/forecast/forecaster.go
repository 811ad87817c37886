// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/modelstore"
)

// ModelName labels forecaster training metrics.
const ModelName = "forecaster"

// Forecaster runs the four weather ensembles over future dates.
// It is safe for concurrent use.
type Forecaster struct {
	store  *modelstore.Store
	config Config
	logger zerolog.Logger

	clockMu sync.RWMutex
	now     func() time.Time

	// Fallback sampler (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewForecaster creates a forecaster backed by store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewForecaster(store *modelstore.Store, cfg Config, logger zerolog.Logger) (*Forecaster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Forecaster{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "forecast").Logger(),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for fallback sampling
	}, nil
}

// SetClock replaces the clock used to determine "tomorrow".
func (f *Forecaster) SetClock(now func() time.Time) {
	f.clockMu.Lock()
	defer f.clockMu.Unlock()
	f.now = now
}

func (f *Forecaster) today() models.Date {
	f.clockMu.RLock()
	now := f.now
	f.clockMu.RUnlock()
	return models.NewDate(now())
}

// SetRand replaces the fallback random source.
func (f *Forecaster) SetRand(rng *rand.Rand) {
	f.rngMu.Lock()
	defer f.rngMu.Unlock()
	f.rng = rng
}

// Config returns the forecaster configuration.
func (f *Forecaster) Config() Config {
	return f.config
}

// Forecast returns exactly daysAhead points dated tomorrow onwards.
// history is only used if the ensembles must be retrained. The only error
// is an InvalidArgumentError for a negative daysAhead.
func (f *Forecaster) Forecast(ctx context.Context, history []models.WeatherObservation, daysAhead int) ([]models.ForecastPoint, error) {
	points, _, err := f.ForecastWithOutcome(ctx, history, daysAhead)
	return points, err
}

// ForecastWithOutcome is Forecast that also reports where the points came
// from: metrics.OutcomeModel, metrics.OutcomeRetrain or
// metrics.OutcomeFallback for randomly sampled values.
func (f *Forecaster) ForecastWithOutcome(ctx context.Context, history []models.WeatherObservation, daysAhead int) ([]models.ForecastPoint, string, error) {
	if daysAhead < 0 {
		return nil, "", &InvalidArgumentError{Name: "days_ahead", Value: daysAhead, Reason: "must not be negative"}
	}
	if daysAhead == 0 {
		return []models.ForecastPoint{}, metrics.OutcomeModel, nil
	}

	start := time.Now()
	dates := f.futureDates(daysAhead)

	set, outcome := f.loadSet(ctx, history)
	var points []models.ForecastPoint
	if set == nil {
		points = f.fallback(dates)
	} else {
		points = predictSet(set, dates)
	}

	metrics.RecordForecast(outcome, time.Since(start))
	return points, outcome, nil
}

// futureDates returns UTC midnights from tomorrow through tomorrow+n-1.
func (f *Forecaster) futureDates(n int) []models.Date {
	today := f.today()
	dates := make([]models.Date, n)
	for i := range dates {
		dates[i] = models.NewDate(today.AddDate(0, 0, i+1))
	}
	return dates
}

// loadSet loads all four ensembles, retraining once when any is missing.
// A nil set means the caller must fall back.
func (f *Forecaster) loadSet(ctx context.Context, history []models.WeatherObservation) (Set, string) {
	set, err := f.load(ctx)
	if err == nil {
		return set, metrics.OutcomeModel
	}

	f.logger.Warn().Err(err).Int("history", len(history)).Msg("Weather ensembles unavailable, retraining once")
	if err := f.Retrain(ctx, history); err != nil {
		f.logger.Error().Err(err).Msg("Weather retrain failed, sampling fallback values")
		return nil, metrics.OutcomeFallback
	}

	set, err = f.load(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("Retrained ensembles did not load, sampling fallback values")
		return nil, metrics.OutcomeFallback
	}
	return set, metrics.OutcomeRetrain
}

func (f *Forecaster) load(ctx context.Context) (Set, error) {
	set := make(Set, len(Variables))
	for _, v := range Variables {
		res := modelstore.Load[*Ensemble](ctx, f.store, v.Artifact())
		if !res.OK() {
			return nil, res.Err
		}
		set[v] = res.Value
	}
	if !set.complete() {
		return nil, &modelstore.ArtifactMissingError{Name: ModelName, Cause: errors.New("empty ensemble")}
	}
	return set, nil
}

// Retrain fits all four ensembles on history and persists them under the
// store's training lock.
func (f *Forecaster) Retrain(ctx context.Context, history []models.WeatherObservation) error {
	names := make([]string, len(Variables))
	for i, v := range Variables {
		names[i] = v.Artifact()
	}

	return f.store.Retrain(ctx, names, func(ctx context.Context) error {
		start := time.Now()
		set, err := FitSet(ctx, history, f.config)
		elapsed := time.Since(start)
		metrics.RecordTraining(ModelName, elapsed, err)
		if err != nil {
			return fmt.Errorf("train forecaster: %w", err)
		}

		for _, v := range Variables {
			e := set[v]
			if _, err := modelstore.Save(ctx, f.store, v.Artifact(), e, modelstore.Metadata{
				TrainedAt:          e.TrainedAt,
				SampleCount:        e.SampleCount,
				TrainingDurationMS: elapsed.Milliseconds(),
			}); err != nil {
				return fmt.Errorf("save %s: %w", v, err)
			}
		}

		f.logger.Info().
			Int("observations", len(history)).
			Int("trees", f.config.Trees).
			Dur("duration", elapsed).
			Msg("Weather ensembles trained")
		return nil
	})
}

func predictSet(set Set, dates []models.Date) []models.ForecastPoint {
	features := make([]CalendarFeature, len(dates))
	for i, d := range dates {
		features[i] = CalendarOf(d.Time)
	}

	temps := set[Temperature].PredictAll(features)
	precips := set[Precipitation].PredictAll(features)
	hums := set[Humidity].PredictAll(features)
	winds := set[WindSpeed].PredictAll(features)

	points := make([]models.ForecastPoint, len(dates))
	for i, d := range dates {
		points[i] = newPoint(d, temps[i], precips[i], hums[i], winds[i])
	}
	return points
}

// fallback samples each day independently from fixed distributions.
func (f *Forecaster) fallback(dates []models.Date) []models.ForecastPoint {
	f.rngMu.Lock()
	defer f.rngMu.Unlock()

	points := make([]models.ForecastPoint, len(dates))
	for i, d := range dates {
		temp := 20 + f.rng.NormFloat64()*5
		precip := max(0, f.rng.ExpFloat64())
		hum := min(max(60+f.rng.NormFloat64()*10, 30), 100)
		wind := max(0, 10+f.rng.NormFloat64()*5)
		points[i] = newPoint(d, temp, precip, hum, wind)
	}
	return points
}

func newPoint(d models.Date, temp, precip, hum, wind float64) models.ForecastPoint {
	temp, precip, hum, wind = clampPoint(temp, precip, hum, wind)
	return models.ForecastPoint{
		Date:          d,
		Temperature:   temp,
		Precipitation: precip,
		Humidity:      hum,
		WindSpeed:     wind,
		Forecast:      Classify(precip, temp),
	}
}
