// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package database persists users, campsites, ratings, preferences, trips
// and weather observations in DuckDB.
//
// The connection string carries the threads and max_memory settings, and an
// empty path opens an in-memory database, which the tests use. Every method
// records its duration and outcome through metrics.RecordDBQuery.
//
// Lookups that find nothing return ErrNotFound; unique violations on
// usernames or emails return ErrConflict. Callers match them with errors.Is.
package database
