// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package main is the entry point for the campkit server.
//
// Campkit recommends campsites similar to the ones a user rated highest and
// forecasts daily weather at a campsite from a random-forest model trained
// on its observation history.
//
// # Commands
//
//	campkit serve   run the HTTP API (default)
//	campkit train   train both models once and exit
//
// # Application Architecture
//
// serve initializes components in this order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Database: DuckDB, optionally seeded with sample campsites
//  3. Model store: versioned gob files or BadgerDB
//  4. Recommender, forecaster, weather history provider and trainer
//  5. Authentication: HS256 JWT bearer tokens
//  6. Supervisor tree: training service and HTTP server (suture)
//
// # Configuration
//
//	JWT_SECRET            required; signs bearer tokens
//	DUCKDB_PATH           database file, empty for in-memory
//	SEED_DATA             insert sample campsites into an empty database
//	MODELS_BACKEND        file or badger
//	WEATHER_PROVIDER      synthetic or openmeteo
//	TRAIN_INTERVAL        retrain period, 0 disables the training service
//
// See internal/config for the full list.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests within SHUTDOWN_TIMEOUT before the database
// and model store are closed.
package main
