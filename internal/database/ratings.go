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

// CreateRating stores a rating by userID. The campsite must exist.
func (db *DB) CreateRating(ctx context.Context, userID int, r *models.RatingCreate) (rating *models.Rating, err error) {
	start := time.Now()
	defer func() { observe("insert", "ratings", start, err) }()

	var exists bool
	if err = db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM campsites WHERE id = ?)`, r.CampsiteID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check campsite: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("campsite %d: %w", r.CampsiteID, ErrNotFound)
	}

	rating = &models.Rating{}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO ratings (user_id, campsite_id, rating, comment) VALUES (?, ?, ?, ?)
		RETURNING id, user_id, campsite_id, rating, comment, created_at`,
		userID, r.CampsiteID, r.Rating, r.Comment,
	).Scan(&rating.ID, &rating.UserID, &rating.CampsiteID, &rating.Rating, &rating.Comment, &rating.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return rating, nil
}

// RatingsByUser returns the user's ratings, oldest first.
func (db *DB) RatingsByUser(ctx context.Context, userID int) (ratings []models.Rating, err error) {
	start := time.Now()
	defer func() { observe("select", "ratings", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, campsite_id, rating, comment, created_at
		FROM ratings WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeQuietly(rows)

	ratings = make([]models.Rating, 0)
	for rows.Next() {
		var r models.Rating
		if err = rows.Scan(&r.ID, &r.UserID, &r.CampsiteID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}
