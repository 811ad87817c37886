// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

// Forecast labels.
const (
	LabelColdAndRainy     = "cold and rainy"
	LabelRainy            = "rainy"
	LabelChanceOfRain     = "chance of rain"
	LabelSunnyAndHot      = "sunny and hot"
	LabelSunnyAndPleasant = "sunny and pleasant"
	LabelColdAndDry       = "cold and dry"
)

// Classify labels a day from its precipitation (mm) and temperature (°C).
// Rules are evaluated in order and the first match wins.
func Classify(precipitation, temperature float64) string {
	switch {
	case precipitation > 5 && temperature < 15:
		return LabelColdAndRainy
	case precipitation > 5:
		return LabelRainy
	case precipitation > 0.5:
		return LabelChanceOfRain
	case temperature > 25:
		return LabelSunnyAndHot
	case temperature > 15:
		return LabelSunnyAndPleasant
	default:
		return LabelColdAndDry
	}
}

// clampPoint applies the physical bounds. Temperature is left as predicted.
func clampPoint(temperature, precipitation, humidity, wind float64) (float64, float64, float64, float64) {
	return temperature, max(0, precipitation), min(max(humidity, 0), 100), max(0, wind)
}
