// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

/*
database_schema.go - Database Schema Management

Tables:
  - users: Accounts with bcrypt password hashes
  - campsites: Campsite records, the recommender's corpus
  - ratings: 1-5 ratings of campsites by users
  - user_preferences: Per-user filters applied to recommendations
  - weather_data: Daily observations per campsite, the forecaster's history
  - trips: Planned stays

Surrogate keys come from sequences. weather_data is keyed by
(campsite_id, date) so re-recording a day replaces it.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates all tables, sequences and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS campsites_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS ratings_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS trips_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY DEFAULT nextval('users_id_seq'),
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS campsites (
		id INTEGER PRIMARY KEY DEFAULT nextval('campsites_id_seq'),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		elevation DOUBLE NOT NULL,
		has_water BOOLEAN NOT NULL DEFAULT false,
		has_electricity BOOLEAN NOT NULL DEFAULT false,
		difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		id INTEGER PRIMARY KEY DEFAULT nextval('ratings_id_seq'),
		user_id INTEGER NOT NULL,
		campsite_id INTEGER NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id INTEGER PRIMARY KEY,
		prefer_water BOOLEAN NOT NULL DEFAULT false,
		prefer_electricity BOOLEAN NOT NULL DEFAULT false,
		max_difficulty INTEGER NOT NULL DEFAULT 5,
		min_elevation DOUBLE,
		max_elevation DOUBLE
	)`,

	`CREATE TABLE IF NOT EXISTS weather_data (
		campsite_id INTEGER NOT NULL,
		date DATE NOT NULL,
		temperature DOUBLE NOT NULL,
		precipitation DOUBLE NOT NULL,
		humidity DOUBLE NOT NULL,
		wind_speed DOUBLE NOT NULL,
		PRIMARY KEY (campsite_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS trips (
		id INTEGER PRIMARY KEY DEFAULT nextval('trips_id_seq'),
		user_id INTEGER NOT NULL,
		campsite_id INTEGER NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_user ON trips(user_id)`,
}
