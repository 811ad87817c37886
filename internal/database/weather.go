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

// InsertWeather records observations in one transaction. A row for an
// existing (campsite_id, date) replaces it.
func (db *DB) InsertWeather(ctx context.Context, obs []models.WeatherObservation) (err error) {
	start := time.Now()
	defer func() { observe("insert", "weather_data", start, err) }()

	if len(obs) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO weather_data
			(campsite_id, date, temperature, precipitation, humidity, wind_speed)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range obs {
		o := &obs[i]
		if _, err = stmt.ExecContext(ctx, o.CampsiteID, o.Date.Time,
			o.Temperature, o.Precipitation, o.Humidity, o.WindSpeed); err != nil {
			return fmt.Errorf("failed to insert observation for %s: %w", o.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}

// WeatherHistory returns up to limit of the most recent observations for
// a campsite, newest first. A non-positive limit returns every row.
func (db *DB) WeatherHistory(ctx context.Context, campsiteID, limit int) (obs []models.WeatherObservation, err error) {
	start := time.Now()
	defer func() { observe("select", "weather_data", start, err) }()

	query := `SELECT campsite_id, date, temperature, precipitation, humidity, wind_speed
		FROM weather_data WHERE campsite_id = ? ORDER BY date DESC`
	args := []any{campsiteID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return db.queryWeather(ctx, query, args...)
}

// AllWeather returns every stored observation ordered by date, the
// forecaster's training corpus.
func (db *DB) AllWeather(ctx context.Context) (obs []models.WeatherObservation, err error) {
	start := time.Now()
	defer func() { observe("select", "weather_data", start, err) }()

	return db.queryWeather(ctx,
		`SELECT campsite_id, date, temperature, precipitation, humidity, wind_speed
		FROM weather_data ORDER BY date, campsite_id`)
}

func (db *DB) queryWeather(ctx context.Context, query string, args ...any) ([]models.WeatherObservation, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weather: %w", err)
	}
	defer closeQuietly(rows)

	obs := make([]models.WeatherObservation, 0)
	for rows.Next() {
		var o models.WeatherObservation
		var day time.Time
		if err := rows.Scan(&o.CampsiteID, &day, &o.Temperature, &o.Precipitation, &o.Humidity, &o.WindSpeed); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		o.Date = models.NewDate(day)
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weather: %w", err)
	}
	return obs, nil
}
