// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package weather supplies the observation history the forecaster trains on.
//
// A Provider looks for history in three places, in order:
//
//  1. Stored observations from the database, when at least min_history rows exist
//  2. The Open-Meteo archive API (provider=openmeteo only)
//  3. A synthetic 30-day history
//
// The archive client waits on a token-bucket limiter (golang.org/x/time/rate)
// before every call and runs through a sony/gobreaker circuit breaker, so an
// unreachable upstream degrades to synthetic data after a few failures
// instead of adding its timeout to every forecast.
//
// SeasonalSeries produces the year-long corpus used to train the ensembles
// when the database holds too little history.
package weather
