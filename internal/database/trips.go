// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/campkit/internal/models"
)

// CreateTrip stores a planned stay for userID.
func (db *DB) CreateTrip(ctx context.Context, userID int, t *models.TripCreate) (trip *models.Trip, err error) {
	start := time.Now()
	defer func() { observe("insert", "trips", start, err) }()

	var startDay, endDay time.Time
	trip = &models.Trip{}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO trips (user_id, campsite_id, start_date, end_date, notes) VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, campsite_id, start_date, end_date, notes`,
		userID, t.CampsiteID, t.StartDate.Time, t.EndDate.Time, t.Notes,
	).Scan(&trip.ID, &trip.UserID, &trip.CampsiteID, &startDay, &endDay, &trip.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	trip.StartDate = models.NewDate(startDay)
	trip.EndDate = models.NewDate(endDay)
	return trip, nil
}

// TripsByUser returns the user's trips ordered by start date.
func (db *DB) TripsByUser(ctx context.Context, userID int) (trips []models.Trip, err error) {
	start := time.Now()
	defer func() { observe("select", "trips", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, campsite_id, start_date, end_date, notes
		FROM trips WHERE user_id = ? ORDER BY start_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer closeQuietly(rows)

	trips = make([]models.Trip, 0)
	for rows.Next() {
		var tr models.Trip
		var startDay, endDay time.Time
		if err = rows.Scan(&tr.ID, &tr.UserID, &tr.CampsiteID, &startDay, &endDay, &tr.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		tr.StartDate = models.NewDate(startDay)
		tr.EndDate = models.NewDate(endDay)
		trips = append(trips, tr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}
	return trips, nil
}
