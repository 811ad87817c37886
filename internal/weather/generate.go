// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package weather

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomtom215/campkit/internal/models"
)

// SyntheticHistory generates days of plausible observations for one campsite,
// dated from days before now through yesterday. The base temperature is drawn
// once so the whole window shares a climate.
func SyntheticHistory(rng *rand.Rand, campsiteID int, now time.Time, days int) []models.WeatherObservation {
	if days <= 0 {
		return []models.WeatherObservation{}
	}

	today := models.NewDate(now)
	baseTemp := 20 + rng.NormFloat64()*5

	out := make([]models.WeatherObservation, days)
	for i := range out {
		out[i] = models.WeatherObservation{
			CampsiteID:    campsiteID,
			Date:          models.NewDate(today.AddDate(0, 0, i-days)),
			Temperature:   baseTemp + rng.NormFloat64()*3,
			Precipitation: max(0, rng.ExpFloat64()),
			Humidity:      clamp(60+rng.NormFloat64()*10, 30, 100),
			WindSpeed:     max(0, 10+rng.NormFloat64()*5),
		}
	}
	return out
}

// SeasonalSeries generates a year-shaped training corpus for the forecast
// ensembles covering the days before end. Every variable follows one shared
// annual sine cycle plus independent noise.
func SeasonalSeries(rng *rand.Rand, end time.Time, days int) []models.WeatherObservation {
	if days <= 0 {
		return []models.WeatherObservation{}
	}

	last := models.NewDate(end)
	out := make([]models.WeatherObservation, days)
	for i := range out {
		cycle := math.Sin(2 * math.Pi * float64(i) / 365)

		var precip float64
		if rng.Float64() < 0.3+0.2*cycle {
			precip = rng.ExpFloat64() * 5
		}

		out[i] = models.WeatherObservation{
			Date:          models.NewDate(last.AddDate(0, 0, i-days)),
			Temperature:   20 + 10*cycle + rng.NormFloat64()*3,
			Precipitation: precip,
			Humidity:      clamp(60+20*cycle+rng.NormFloat64()*10, 30, 100),
			WindSpeed:     clamp(10+5*cycle+rng.NormFloat64()*3, 0, 30),
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
