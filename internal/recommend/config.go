// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import "fmt"

// SelfMatchPolicy controls how the seed campsite is removed from its own
// neighbor list.
type SelfMatchPolicy string

const (
	// SelfMatchDropFirst discards neighbor 0 regardless of its ID, then any
	// later neighbor carrying the seed's ID.
	SelfMatchDropFirst SelfMatchPolicy = "drop_first"

	// SelfMatchFilterID discards any neighbor whose ID equals the seed's.
	SelfMatchFilterID SelfMatchPolicy = "filter_id"
)

// Config contains recommender settings.
type Config struct {
	// DefaultLimit is used when a caller asks for n <= 0 through the API.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps n.
	MaxLimit int `json:"max_limit"`

	// Seed seeds the fallback sampler. Zero uses a fixed default.
	Seed int64 `json:"seed"`

	// SelfMatch selects the self-match policy.
	SelfMatch SelfMatchPolicy `json:"self_match"`
}

// DefaultConfig returns the default recommender configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 5,
		MaxLimit:     50,
		Seed:         42,
		SelfMatch:    SelfMatchDropFirst,
	}
}

// Validate checks the configuration.
//
//nolint:gocritic // value receiver keeps Config immutable
func (c Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be at least 1, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	switch c.SelfMatch {
	case SelfMatchDropFirst, SelfMatchFilterID:
	default:
		return fmt.Errorf("recommend.self_match must be %q or %q, got %q", SelfMatchDropFirst, SelfMatchFilterID, c.SelfMatch)
	}
	return nil
}
