// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package forecast produces multi-day weather forecasts for a campsite.
//
// Four independent regression ensembles (temperature, precipitation,
// humidity, wind speed) map a calendar position (day of year, month) to a
// scalar. Each ensemble is a bagged forest of CART regression trees grown
// from a seeded random source, so training the same history with the same
// seed yields identical artifacts.
//
// Forecast derives the calendar feature for each day starting tomorrow,
// runs all four ensembles, clamps the physically bounded outputs and labels
// each day:
//
//	precipitation > 5 mm and temperature < 15 °C  -> "cold and rainy"
//	precipitation > 5 mm                          -> "rainy"
//	precipitation > 0.5 mm                        -> "chance of rain"
//	temperature > 25 °C                           -> "sunny and hot"
//	temperature > 15 °C                           -> "sunny and pleasant"
//	otherwise                                     -> "cold and dry"
//
// When any ensemble is missing from the model store, Forecast retrains all
// four once from the supplied history. If that fails too, each day is
// sampled from fixed plausible distributions instead. Only a negative
// horizon is rejected.
package forecast
