// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/campkit/internal/models"
)

func TestFitNormalizer_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		vectors []FeatureVector
	}{
		{name: "nil", vectors: nil},
		{name: "single vector", vectors: []FeatureVector{{1, 2, 3, 0, 1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitNormalizer(tt.vectors)
			if !errors.Is(err, ErrDegenerateInput) {
				t.Fatalf("FitNormalizer() error = %v, want ErrDegenerateInput", err)
			}
			var de *DegenerateInputError
			if !errors.As(err, &de) || de.Got != len(tt.vectors) {
				t.Errorf("DegenerateInputError = %+v", de)
			}
		})
	}
}

func TestFitNormalizer_PopulationStd(t *testing.T) {
	vectors := []FeatureVector{
		{0, 10, 100, 0, 1, 3},
		{2, 10, 300, 1, 1, 3},
	}

	norm, err := FitNormalizer(vectors)
	if err != nil {
		t.Fatalf("FitNormalizer() error = %v", err)
	}

	wantMean := FeatureVector{1, 10, 200, 0.5, 1, 3}
	wantStd := FeatureVector{1, 1, 100, 0.5, 1, 1} // constant columns use 1
	for j := 0; j < FeatureCount; j++ {
		if norm.Mean[j] != wantMean[j] {
			t.Errorf("Mean[%d] = %v, want %v", j, norm.Mean[j], wantMean[j])
		}
		if norm.Std[j] != wantStd[j] {
			t.Errorf("Std[%d] = %v, want %v", j, norm.Std[j], wantStd[j])
		}
	}

	z := norm.Transform(vectors[0])
	want := FeatureVector{-1, 0, -1, -1, 0, 0}
	if z != want {
		t.Errorf("Transform() = %v, want %v", z, want)
	}
}

func TestNormalizer_RoundTrip(t *testing.T) {
	campsites := []models.Campsite{
		{ID: 1, Latitude: 45.12, Longitude: -121.7, Elevation: 1530, HasWater: true, Difficulty: 2},
		{ID: 2, Latitude: 44.03, Longitude: -122.1, Elevation: 820, HasElectricity: true, Difficulty: 1},
		{ID: 3, Latitude: 46.85, Longitude: -121.76, Elevation: 2100, HasWater: true, Difficulty: 5},
		{ID: 4, Latitude: 43.9, Longitude: -120.2, Elevation: 60, Difficulty: 3},
	}

	vectors := make([]FeatureVector, len(campsites))
	for i := range campsites {
		vectors[i] = FeaturesOf(&campsites[i])
	}

	norm, err := FitNormalizer(vectors)
	if err != nil {
		t.Fatalf("FitNormalizer() error = %v", err)
	}

	for i, v := range vectors {
		back := norm.Inverse(norm.Transform(v))
		for j := range v {
			if math.Abs(back[j]-v[j]) > 1e-9 {
				t.Errorf("vector %d feature %d: round trip %v, want %v", i, j, back[j], v[j])
			}
		}
	}
}

func TestFeaturesOf(t *testing.T) {
	c := models.Campsite{Latitude: 1.5, Longitude: -2, Elevation: 300, HasWater: true, HasElectricity: false, Difficulty: 4}
	want := FeatureVector{1.5, -2, 300, 1, 0, 4}
	if got := FeaturesOf(&c); got != want {
		t.Errorf("FeaturesOf() = %v, want %v", got, want)
	}
}
