// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import "math"

// Normalizer holds per-feature z-score parameters. It is frozen after
// FitNormalizer and replaced wholesale on retrain.
type Normalizer struct {
	Mean FeatureVector
	Std  FeatureVector
}

// FitNormalizer computes the per-column mean and population standard
// deviation. A column with zero deviation gets Std 1 so constant features
// pass through centered but unscaled.
func FitNormalizer(vectors []FeatureVector) (*Normalizer, error) {
	if len(vectors) < 2 {
		return nil, &DegenerateInputError{Got: len(vectors), Need: 2}
	}

	n := float64(len(vectors))
	var norm Normalizer

	for _, v := range vectors {
		for j := range v {
			norm.Mean[j] += v[j]
		}
	}
	for j := range norm.Mean {
		norm.Mean[j] /= n
	}

	for _, v := range vectors {
		for j := range v {
			d := v[j] - norm.Mean[j]
			norm.Std[j] += d * d
		}
	}
	for j := range norm.Std {
		norm.Std[j] = math.Sqrt(norm.Std[j] / n)
		if norm.Std[j] == 0 {
			norm.Std[j] = 1
		}
	}

	return &norm, nil
}

// Transform applies (x - mean) / std per feature.
func (n *Normalizer) Transform(v FeatureVector) FeatureVector {
	var out FeatureVector
	for j := range v {
		out[j] = (v[j] - n.Mean[j]) / n.Std[j]
	}
	return out
}

// Inverse maps a normalized vector back to feature space (mean + z*std).
func (n *Normalizer) Inverse(z FeatureVector) FeatureVector {
	var out FeatureVector
	for j := range z {
		out[j] = n.Mean[j] + z[j]*n.Std[j]
	}
	return out
}
