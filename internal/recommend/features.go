// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"math"

	"github.com/tomtom215/campkit/internal/models"
)

// FeatureCount is the dimensionality of a campsite feature vector.
const FeatureCount = 6

// FeatureVector holds, in order: latitude, longitude, elevation, has_water,
// has_electricity, difficulty. Booleans are encoded as 0 or 1.
type FeatureVector [FeatureCount]float64

// FeaturesOf extracts the feature vector of a campsite.
func FeaturesOf(c *models.Campsite) FeatureVector {
	return FeatureVector{
		c.Latitude,
		c.Longitude,
		c.Elevation,
		boolToFloat(c.HasWater),
		boolToFloat(c.HasElectricity),
		float64(c.Difficulty),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b FeatureVector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
