// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package models

// WeatherObservation is one day of recorded weather at a campsite.
type WeatherObservation struct {
	CampsiteID int  `json:"campsite_id"`
	Date       Date `json:"date" validate:"required"`

	// Temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`

	// Precipitation in millimeters.
	Precipitation float64 `json:"precipitation" validate:"gte=0"`

	// Humidity as relative percent.
	Humidity float64 `json:"humidity" validate:"gte=0,lte=100"`

	// WindSpeed in km/h.
	WindSpeed float64 `json:"wind_speed" validate:"gte=0"`
}

// ForecastPoint is one predicted day.
type ForecastPoint struct {
	Date          Date    `json:"date"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Forecast      string  `json:"forecast"`
}
