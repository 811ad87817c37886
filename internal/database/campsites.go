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

const campsiteColumns = `id, name, description, latitude, longitude, elevation,
	has_water, has_electricity, difficulty, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampsite(row rowScanner) (models.Campsite, error) {
	var c models.Campsite
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Latitude, &c.Longitude, &c.Elevation,
		&c.HasWater, &c.HasElectricity, &c.Difficulty, &c.CreatedAt)
	return c, err
}

// CreateCampsite inserts c and returns it with its assigned id.
func (db *DB) CreateCampsite(ctx context.Context, c *models.Campsite) (created *models.Campsite, err error) {
	start := time.Now()
	defer func() { observe("insert", "campsites", start, err) }()

	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO campsites (name, description, latitude, longitude, elevation,
			has_water, has_electricity, difficulty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+campsiteColumns,
		c.Name, c.Description, c.Latitude, c.Longitude, c.Elevation,
		c.HasWater, c.HasElectricity, c.Difficulty,
	)
	out, err := scanCampsite(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create campsite: %w", err)
	}
	return &out, nil
}

// GetCampsite returns ErrNotFound when the id is unknown.
func (db *DB) GetCampsite(ctx context.Context, id int) (c *models.Campsite, err error) {
	start := time.Now()
	defer func() { observe("select", "campsites", start, err) }()

	out, err := scanCampsite(db.conn.QueryRowContext(ctx,
		`SELECT `+campsiteColumns+` FROM campsites WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campsite %d: %w", id, err)
	}
	return &out, nil
}

// ListCampsites returns one page of campsites ordered by id.
func (db *DB) ListCampsites(ctx context.Context, skip, limit int) (sites []models.Campsite, err error) {
	start := time.Now()
	defer func() { observe("select", "campsites", start, err) }()

	return db.queryCampsites(ctx,
		`SELECT `+campsiteColumns+` FROM campsites ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
}

// AllCampsites returns the full corpus ordered by id.
func (db *DB) AllCampsites(ctx context.Context) (sites []models.Campsite, err error) {
	start := time.Now()
	defer func() { observe("select", "campsites", start, err) }()

	return db.queryCampsites(ctx, `SELECT `+campsiteColumns+` FROM campsites ORDER BY id`)
}

// CountCampsites returns the number of stored campsites.
func (db *DB) CountCampsites(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { observe("count", "campsites", start, err) }()

	err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM campsites`).Scan(&n)
	return n, err
}

func (db *DB) queryCampsites(ctx context.Context, query string, args ...any) ([]models.Campsite, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campsites: %w", err)
	}
	defer closeQuietly(rows)

	sites := make([]models.Campsite, 0)
	for rows.Next() {
		c, err := scanCampsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campsite: %w", err)
		}
		sites = append(sites, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campsites: %w", err)
	}
	return sites, nil
}

// sampleCampsites seeds an empty database so the recommender has a corpus.
var sampleCampsites = []models.Campsite{
	{Name: "Lakeside Meadow", Description: "Flat sites on the north shore", Latitude: 44.02, Longitude: -121.75, Elevation: 1320, HasWater: true, HasElectricity: true, Difficulty: 1},
	{Name: "Pine Ridge", Description: "Shaded forest loop", Latitude: 44.31, Longitude: -121.52, Elevation: 1610, HasWater: true, Difficulty: 2},
	{Name: "Canyon Overlook", Description: "Walk-in sites above the river", Latitude: 44.58, Longitude: -121.18, Elevation: 880, Difficulty: 3},
	{Name: "Summit Basin", Description: "High camp below the pass", Latitude: 44.10, Longitude: -121.77, Elevation: 2450, Difficulty: 5},
	{Name: "River Bend", Description: "Family sites with hookups", Latitude: 44.85, Longitude: -121.05, Elevation: 610, HasWater: true, HasElectricity: true, Difficulty: 1},
	{Name: "Juniper Flats", Description: "Open desert camping", Latitude: 43.95, Longitude: -120.60, Elevation: 1150, Difficulty: 2},
	{Name: "Glacier View", Description: "Backcountry permit required", Latitude: 45.37, Longitude: -121.69, Elevation: 2010, HasWater: true, Difficulty: 4},
	{Name: "Cedar Hollow", Description: "Quiet sites near the trailhead", Latitude: 45.12, Longitude: -122.05, Elevation: 940, HasWater: true, HasElectricity: true, Difficulty: 2},
}

// seedCampsites inserts sampleCampsites when the table is empty.
func (db *DB) seedCampsites(ctx context.Context) error {
	n, err := db.CountCampsites(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i := range sampleCampsites {
		if _, err := db.CreateCampsite(ctx, &sampleCampsites[i]); err != nil {
			return err
		}
	}
	return nil
}
