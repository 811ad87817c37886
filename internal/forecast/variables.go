// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/modelstore"
)

// Variable names a forecast target.
type Variable string

const (
	Temperature   Variable = "temperature"
	Precipitation Variable = "precipitation"
	Humidity      Variable = "humidity"
	WindSpeed     Variable = "wind_speed"
)

// Variables lists every forecast target in artifact order.
var Variables = []Variable{Temperature, Precipitation, Humidity, WindSpeed}

// Artifact returns the model store name for v.
func (v Variable) Artifact() string {
	switch v {
	case Temperature:
		return modelstore.ArtifactWeatherTemperature
	case Precipitation:
		return modelstore.ArtifactWeatherPrecipitation
	case Humidity:
		return modelstore.ArtifactWeatherHumidity
	case WindSpeed:
		return modelstore.ArtifactWeatherWindSpeed
	default:
		return "weather_" + string(v)
	}
}

func (v Variable) observed(o *models.WeatherObservation) float64 {
	switch v {
	case Temperature:
		return o.Temperature
	case Precipitation:
		return o.Precipitation
	case Humidity:
		return o.Humidity
	default:
		return o.WindSpeed
	}
}

// Set holds one trained ensemble per variable. Ensembles share no state.
type Set map[Variable]*Ensemble

// complete reports whether every variable has a usable ensemble.
func (s Set) complete() bool {
	for _, v := range Variables {
		if !s[v].usable() {
			return false
		}
	}
	return true
}

// FitSet trains the four ensembles independently on the same history.
//
//nolint:gocritic // cfg is small and read-only
func FitSet(ctx context.Context, history []models.WeatherObservation, cfg Config) (Set, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	features := make([]CalendarFeature, len(history))
	for i := range history {
		features[i] = CalendarOf(history[i].Date.Time)
	}

	fitted := make([]*Ensemble, len(Variables))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range Variables {
		g.Go(func() error {
			targets := make([]float64, len(history))
			for j := range history {
				targets[j] = v.observed(&history[j])
			}
			e, err := FitEnsemble(gctx, v, features, targets, cfg)
			if err != nil {
				return fmt.Errorf("fit %s: %w", v, err)
			}
			fitted[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(Set, len(Variables))
	for i, v := range Variables {
		set[v] = fitted[i]
	}
	return set, nil
}
