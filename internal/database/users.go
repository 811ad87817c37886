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

const userColumns = `id, username, email, password_hash, is_active, created_at`

// CreateUser inserts a user with an already hashed password.
// Returns ErrConflict when the username or email is taken.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe("insert", "users", start, err) }()

	user = &models.User{}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)
		RETURNING `+userColumns,
		username, email, passwordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByUsername returns ErrNotFound when no user has the name.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe("select", "users", start, err) }()

	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// GetUserByID returns ErrNotFound when the id is unknown.
func (db *DB) GetUserByID(ctx context.Context, id int) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe("select", "users", start, err) }()

	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
