// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package training rebuilds the recommender and forecaster from the
// database. It backs the `campkit train` command, the retrain endpoint and
// the periodic training service.
package training
