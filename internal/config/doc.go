// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

/*
Package config provides centralized configuration management for Campkit.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The merged result is validated before
it is returned.

# Configuration File

The first existing file wins:
  - $CONFIG_PATH
  - config.yaml, config.yml
  - /etc/campkit/config.yaml, /etc/campkit/config.yml

Example:

	server:
	  port: 8000
	models:
	  backend: badger
	  path: /data/models
	forecast:
	  trees: 100
	weather:
	  provider: openmeteo
	security:
	  jwt_secret: change-me-to-at-least-32-characters

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT

Database:
  - DUCKDB_PATH: Database file path (default: /data/campkit.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS, SEED_DATA

Models:
  - MODELS_BACKEND: file or badger (default: file)
  - MODELS_PATH, MODELS_KEEP_VERSIONS

Recommender:
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT, RECOMMEND_SEED
  - RECOMMEND_SELF_MATCH: drop_first or filter_id (default: drop_first)

Forecaster:
  - FORECAST_TREES, FORECAST_MAX_DEPTH, FORECAST_MIN_LEAF, FORECAST_SEED
  - FORECAST_DEFAULT_DAYS, FORECAST_MAX_DAYS, FORECAST_MIN_HISTORY

Weather:
  - WEATHER_PROVIDER: synthetic or openmeteo (default: synthetic)
  - WEATHER_BASE_URL, WEATHER_TIMEOUT, WEATHER_HISTORY_DAYS
  - WEATHER_REQUESTS_PER_SECOND, WEATHER_BURST, WEATHER_SEED
  - WEATHER_BREAKER_MAX_FAILURES, WEATHER_BREAKER_TIMEOUT, WEATHER_BREAKER_INTERVAL

Training:
  - TRAIN_ON_STARTUP, TRAIN_INTERVAL

Cache:
  - FORECAST_CACHE_TTL, FORECAST_CACHE_CAPACITY

Security:
  - JWT_SECRET: HS256 signing secret (required, min 32 chars)
  - TOKEN_TTL, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: Comma-separated origins

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
