// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import "time"

// featureCount is the width of a CalendarFeature as a regression input.
const featureCount = 2

// CalendarFeature is the sole forecasting input.
type CalendarFeature struct {
	DayOfYear int // 1..366
	Month     int // 1..12
}

// CalendarOf derives the calendar feature of t's date.
func CalendarOf(t time.Time) CalendarFeature {
	return CalendarFeature{DayOfYear: t.YearDay(), Month: int(t.Month())}
}

func (c CalendarFeature) vector() [featureCount]float64 {
	return [featureCount]float64{float64(c.DayOfYear), float64(c.Month)}
}
