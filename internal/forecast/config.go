// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import "fmt"

// Config contains forecaster settings.
type Config struct {
	// Trees is the number of trees per ensemble.
	// Default: 100.
	Trees int `json:"trees"`

	// MaxDepth limits tree depth. Zero grows until leaves are pure.
	MaxDepth int `json:"max_depth"`

	// MinLeaf is the minimum number of samples in a leaf.
	// Default: 1.
	MinLeaf int `json:"min_leaf"`

	// Seed seeds bootstrap sampling and the fallback sampler.
	Seed int64 `json:"seed"`

	// DefaultDays is the horizon used when the API caller omits one.
	DefaultDays int `json:"default_days"`

	// MaxDays caps the horizon accepted by the API.
	MaxDays int `json:"max_days"`

	// MinHistory is the number of stored observations below which callers
	// substitute a synthetic history before training.
	MinHistory int `json:"min_history"`
}

// DefaultConfig returns the default forecaster configuration.
func DefaultConfig() Config {
	return Config{
		Trees:       100,
		MaxDepth:    0,
		MinLeaf:     1,
		Seed:        42,
		DefaultDays: 7,
		MaxDays:     30,
		MinHistory:  7,
	}
}

// Validate checks the configuration.
//
//nolint:gocritic // value receiver keeps Config immutable
func (c Config) Validate() error {
	if c.Trees < 1 {
		return fmt.Errorf("forecast.trees must be at least 1, got %d", c.Trees)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("forecast.max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MinLeaf < 1 {
		return fmt.Errorf("forecast.min_leaf must be at least 1, got %d", c.MinLeaf)
	}
	if c.DefaultDays < 0 || c.MaxDays < c.DefaultDays {
		return fmt.Errorf("forecast.default_days (%d) must be within [0, max_days=%d]", c.DefaultDays, c.MaxDays)
	}
	if c.MinHistory < 1 {
		return fmt.Errorf("forecast.min_history must be at least 1, got %d", c.MinHistory)
	}
	return nil
}
