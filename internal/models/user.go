// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserCreate is the registration request body.
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TokenRequest is the credential pair exchanged for a bearer token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserPreference holds a user's campsite filters.
type UserPreference struct {
	UserID            int      `json:"user_id"`
	PreferWater       bool     `json:"prefer_water"`
	PreferElectricity bool     `json:"prefer_electricity"`
	MaxDifficulty     int      `json:"max_difficulty" validate:"min=1,max=5"`
	MinElevation      *float64 `json:"min_elevation,omitempty"`
	MaxElevation      *float64 `json:"max_elevation,omitempty"`
}

// DefaultPreference returns the preference used when a user has none stored.
func DefaultPreference(userID int) UserPreference {
	return UserPreference{UserID: userID, MaxDifficulty: 5}
}

// Allows reports whether c satisfies the preference filters.
func (p *UserPreference) Allows(c *Campsite) bool {
	if p.PreferWater && !c.HasWater {
		return false
	}
	if p.PreferElectricity && !c.HasElectricity {
		return false
	}
	if p.MaxDifficulty > 0 && c.Difficulty > p.MaxDifficulty {
		return false
	}
	if p.MinElevation != nil && c.Elevation < *p.MinElevation {
		return false
	}
	if p.MaxElevation != nil && c.Elevation > *p.MaxElevation {
		return false
	}
	return true
}
