// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package weather

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
)

// History sources, used as metric labels and in logs.
const (
	SourceDatabase  = "database"
	SourceOpenMeteo = "openmeteo"
	SourceSynthetic = "synthetic"
)

// ObservationStore reads stored weather rows. It is satisfied by
// *database.DB.
type ObservationStore interface {
	WeatherHistory(ctx context.Context, campsiteID, limit int) ([]models.WeatherObservation, error)
}

// Archive fetches remote history. It is satisfied by *Client.
type Archive interface {
	History(ctx context.Context, campsiteID int, lat, lon float64, start, end models.Date) ([]models.WeatherObservation, error)
}

// Provider assembles a training history for a campsite. Stored rows win;
// when there are too few, the archive is tried, and the synthetic generator
// covers everything else. HistoryFor therefore always returns data.
type Provider struct {
	store      ObservationStore
	archive    Archive // nil when provider=synthetic
	days       int
	minHistory int
	logger     zerolog.Logger
	now        func() time.Time

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewProvider creates a history provider. archive may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewProvider(store ObservationStore, archive Archive, days, minHistory int, seed int64, logger zerolog.Logger) *Provider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Provider{
		store:      store,
		archive:    archive,
		days:       days,
		minHistory: minHistory,
		logger:     logger.With().Str("component", "weather").Logger(),
		now:        time.Now,
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // synthetic weather does not need crypto randomness
	}
}

// SetClock replaces the clock used to date synthetic and archive windows.
func (p *Provider) SetClock(now func() time.Time) {
	p.now = now
}

// HistoryFor returns at most p.days observations for c in ascending date
// order, and the source they came from.
func (p *Provider) HistoryFor(ctx context.Context, c *models.Campsite) ([]models.WeatherObservation, string) {
	rows, err := p.store.WeatherHistory(ctx, c.ID, p.days)
	metrics.RecordWeatherFetch(SourceDatabase, err)
	if err != nil {
		p.logger.Warn().Err(err).Int("campsite_id", c.ID).Msg("Stored weather unavailable")
	} else if len(rows) >= p.minHistory {
		sortByDate(rows)
		return rows, SourceDatabase
	}

	if p.archive != nil {
		today := models.NewDate(p.now())
		start := models.NewDate(today.AddDate(0, 0, -p.days))
		end := models.NewDate(today.AddDate(0, 0, -1))

		remote, err := p.archive.History(ctx, c.ID, c.Latitude, c.Longitude, start, end)
		metrics.RecordWeatherFetch(SourceOpenMeteo, err)
		if err == nil && len(remote) >= p.minHistory {
			sortByDate(remote)
			return remote, SourceOpenMeteo
		}
		p.logger.Warn().Err(err).Int("campsite_id", c.ID).Int("rows", len(remote)).
			Msg("Archive history unavailable, generating synthetic history")
	}

	metrics.RecordWeatherFetch(SourceSynthetic, nil)
	return p.Synthetic(c.ID), SourceSynthetic
}

// Synthetic generates a synthetic history using the provider's random source.
func (p *Provider) Synthetic(campsiteID int) []models.WeatherObservation {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return SyntheticHistory(p.rng, campsiteID, p.now(), p.days)
}

// Seasonal generates a year-long training corpus ending yesterday.
func (p *Provider) Seasonal(days int) []models.WeatherObservation {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return SeasonalSeries(p.rng, p.now(), days)
}

func sortByDate(rows []models.WeatherObservation) {
	slices.SortStableFunc(rows, func(a, b models.WeatherObservation) int {
		return a.Date.Compare(b.Date.Time)
	})
}
