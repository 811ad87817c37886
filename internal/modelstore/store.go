// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package modelstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/metrics"
)

// Artifact names.
const (
	ArtifactRecommender          = "recommender"
	ArtifactWeatherTemperature   = "weather_temperature"
	ArtifactWeatherPrecipitation = "weather_precipitation"
	ArtifactWeatherHumidity      = "weather_humidity"
	ArtifactWeatherWindSpeed     = "weather_wind_speed"
)

// WeatherArtifacts lists the four forecast ensembles in a fixed order.
var WeatherArtifacts = []string{
	ArtifactWeatherTemperature,
	ArtifactWeatherPrecipitation,
	ArtifactWeatherHumidity,
	ArtifactWeatherWindSpeed,
}

// Status tags the outcome of a Load.
type Status int

const (
	StatusOK Status = iota
	StatusArtifactMissing
	StatusTrainingFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusArtifactMissing:
		return "artifact_missing"
	case StatusTrainingFailed:
		return "training_failed"
	default:
		return "unknown"
	}
}

// Result is a tagged load or retrain outcome. Value is only meaningful when
// Status is StatusOK.
type Result[T any] struct {
	Value  T
	Status Status
	Meta   Metadata
	Err    error
}

// OK reports whether the result carries a usable value.
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Failed builds a StatusTrainingFailed result.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusTrainingFailed, Err: err}
}

type cachedArtifact struct {
	value interface{}
	meta  Metadata
}

// Store caches decoded artifacts over a Backend and serializes retraining.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	mu    sync.RWMutex
	cache map[string]cachedArtifact

	trainMu sync.Mutex
}

// New creates a Store over backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "modelstore").Logger(),
		cache:   make(map[string]cachedArtifact),
	}
}

// Load returns the named artifact decoded as T.
func Load[T any](ctx context.Context, s *Store, name string) Result[T] {
	s.mu.RLock()
	c, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		if v, ok := c.value.(T); ok {
			metrics.RecordArtifactLoad(name, StatusOK.String())
			return Result[T]{Value: v, Status: StatusOK, Meta: c.meta}
		}
	}

	res := loadFromBackend[T](ctx, s, name)
	metrics.RecordArtifactLoad(name, res.Status.String())
	if res.OK() {
		s.mu.Lock()
		s.cache[name] = cachedArtifact{value: res.Value, meta: res.Meta}
		s.mu.Unlock()
	}
	return res
}

func loadFromBackend[T any](ctx context.Context, s *Store, name string) Result[T] {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).Str("artifact", name).Msg("Artifact read failed")
		}
		return Result[T]{Status: StatusArtifactMissing, Err: &ArtifactMissingError{Name: name, Cause: err}}
	}

	var value T
	meta, err := decode(data, &value)
	if err != nil {
		s.logger.Warn().Err(err).Str("artifact", name).Msg("Artifact unreadable, treating as missing")
		return Result[T]{Status: StatusArtifactMissing, Err: &ArtifactMissingError{Name: name, Cause: err}}
	}
	return Result[T]{Value: value, Status: StatusOK, Meta: *meta}
}

// Save encodes value and writes it as the next version of name.
//
//nolint:gocritic // meta is filled in and copied into the envelope
func Save[T any](ctx context.Context, s *Store, name string, value T, meta Metadata) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return meta, err
	}

	meta.Name = name
	meta.SaveID = uuid.NewString()
	meta.SavedAt = time.Now().UTC()
	if meta.TrainedAt.IsZero() {
		meta.TrainedAt = meta.SavedAt
	}
	meta.Version = s.nextVersion(ctx, name)

	data, meta, err := encode(value, meta)
	if err != nil {
		return meta, err
	}
	if err := s.backend.Put(ctx, name, data); err != nil {
		return meta, fmt.Errorf("store %s: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = cachedArtifact{value: value, meta: meta}
	s.mu.Unlock()

	s.logger.Info().
		Str("artifact", name).
		Int("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Msg("Artifact saved")
	return meta, nil
}

func (s *Store) nextVersion(ctx context.Context, name string) int {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		return 1
	}
	meta, err := decodeMetadata(data)
	if err != nil {
		return 1
	}
	return meta.Version + 1
}

// Reload drops every cached artifact so the next Load reads the backend.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cachedArtifact)
}

// Retrain runs train while holding the store's training lock. Concurrent
// callers wait their turn. Cached copies of names are dropped first so a
// failed run cannot leave a stale artifact in memory.
func (s *Store) Retrain(ctx context.Context, names []string, train func(ctx context.Context) error) error {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, name := range names {
		delete(s.cache, name)
	}
	s.mu.Unlock()

	if err := train(ctx); err != nil {
		s.logger.Error().Err(err).Strs("artifacts", names).Msg("Retrain failed")
		return err
	}
	return nil
}

// Metadata returns stored metadata for name without decoding the payload.
func (s *Store) Metadata(ctx context.Context, name string) (*Metadata, error) {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, &ArtifactMissingError{Name: name, Cause: err}
	}
	return decodeMetadata(data)
}

// List returns metadata for every stored artifact.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	names, err := s.backend.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		meta, err := s.Metadata(ctx, name)
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	return out, nil
}

// Delete removes an artifact from the backend and the cache.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
	return s.backend.Delete(ctx, name)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
