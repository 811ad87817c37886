// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/campkit/internal/models"
)

// GetPreference returns the stored preference, or DefaultPreference with
// found=false when the user never saved one.
func (db *DB) GetPreference(ctx context.Context, userID int) (pref models.UserPreference, found bool, err error) {
	start := time.Now()
	defer func() { observe("select", "user_preferences", start, err) }()

	var minElev, maxElev sql.NullFloat64
	pref.UserID = userID
	err = db.conn.QueryRowContext(ctx,
		`SELECT prefer_water, prefer_electricity, max_difficulty, min_elevation, max_elevation
		FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&pref.PreferWater, &pref.PreferElectricity, &pref.MaxDifficulty, &minElev, &maxElev)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreference(userID), false, nil
	}
	if err != nil {
		return models.UserPreference{}, false, fmt.Errorf("failed to get preference: %w", err)
	}
	if minElev.Valid {
		pref.MinElevation = &minElev.Float64
	}
	if maxElev.Valid {
		pref.MaxElevation = &maxElev.Float64
	}
	return pref, true, nil
}

// UpsertPreference replaces the user's preference row.
func (db *DB) UpsertPreference(ctx context.Context, pref *models.UserPreference) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "user_preferences", start, err) }()

	_, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_preferences
			(user_id, prefer_water, prefer_electricity, max_difficulty, min_elevation, max_elevation)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pref.UserID, pref.PreferWater, pref.PreferElectricity, pref.MaxDifficulty,
		nullFloat(pref.MinElevation), nullFloat(pref.MaxElevation),
	)
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
