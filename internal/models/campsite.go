// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package models

import "time"

// Campsite is a stored campsite record.
type Campsite struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Latitude in decimal degrees.
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees.
	Longitude float64 `json:"longitude"`

	// Elevation in meters above sea level.
	Elevation float64 `json:"elevation"`

	HasWater       bool `json:"has_water"`
	HasElectricity bool `json:"has_electricity"`

	// Difficulty of access on a 1 (easy) to 5 (hard) scale.
	Difficulty int `json:"difficulty"`

	CreatedAt time.Time `json:"created_at"`
}

// CampsiteCreate is the request body for creating a campsite.
type CampsiteCreate struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Description    string  `json:"description" validate:"max=5000"`
	Latitude       float64 `json:"latitude" validate:"latitude"`
	Longitude      float64 `json:"longitude" validate:"longitude"`
	Elevation      float64 `json:"elevation" validate:"gte=-500,lte=9000"`
	HasWater       bool    `json:"has_water"`
	HasElectricity bool    `json:"has_electricity"`
	Difficulty     int     `json:"difficulty" validate:"min=1,max=5"`
}

// ToCampsite converts the request into an unsaved Campsite.
func (c *CampsiteCreate) ToCampsite() Campsite {
	return Campsite{
		Name:           c.Name,
		Description:    c.Description,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		Elevation:      c.Elevation,
		HasWater:       c.HasWater,
		HasElectricity: c.HasElectricity,
		Difficulty:     c.Difficulty,
	}
}

// Rating is a user's 1-5 score for a campsite.
type Rating struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	CampsiteID int       `json:"campsite_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingCreate is the request body for rating a campsite.
type RatingCreate struct {
	CampsiteID int    `json:"campsite_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

// Trip is a planned stay at a campsite.
type Trip struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user_id"`
	CampsiteID int    `json:"campsite_id"`
	StartDate  Date   `json:"start_date"`
	EndDate    Date   `json:"end_date"`
	Notes      string `json:"notes,omitempty"`
}

// TripCreate is the request body for planning a trip.
type TripCreate struct {
	CampsiteID int    `json:"campsite_id" validate:"required,gt=0"`
	StartDate  Date   `json:"start_date" validate:"required"`
	EndDate    Date   `json:"end_date" validate:"required"`
	Notes      string `json:"notes" validate:"max=2000"`
}
