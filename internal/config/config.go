// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package config

import "time"

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("Failed to load config")
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Models    ModelsConfig    `koanf:"models"`
	Recommend RecommendConfig `koanf:"recommend"`
	Forecast  ForecastConfig  `koanf:"forecast"`
	Weather   WeatherConfig   `koanf:"weather"`
	Training  TrainingConfig  `koanf:"training"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // Empty path opens an in-memory database
	MaxMemory string `koanf:"max_memory"` // DuckDB memory_limit, e.g. "512MB"
	Threads   int    `koanf:"threads"`    // Number of DuckDB threads (0 = use NumCPU)
	SeedData  bool   `koanf:"seed_data"`  // Insert sample campsites into an empty database
}

// ModelsConfig selects where trained artifacts live.
type ModelsConfig struct {
	// Backend is "file" (versioned gob files) or "badger" (embedded KV store)
	Backend string `koanf:"backend"`
	// Path is the artifact directory. Empty with backend=badger runs in memory.
	Path string `koanf:"path"`
	// KeepVersions is how many versions the file backend retains per artifact
	KeepVersions int `koanf:"keep_versions"`
}

// RecommendConfig holds recommender settings
type RecommendConfig struct {
	DefaultLimit int    `koanf:"default_limit"`
	MaxLimit     int    `koanf:"max_limit"`
	Seed         int64  `koanf:"seed"`
	SelfMatch    string `koanf:"self_match"` // "drop_first" or "filter_id"
}

// ForecastConfig holds forecaster settings
type ForecastConfig struct {
	Trees       int   `koanf:"trees"`
	MaxDepth    int   `koanf:"max_depth"` // 0 = unlimited
	MinLeaf     int   `koanf:"min_leaf"`
	Seed        int64 `koanf:"seed"`
	DefaultDays int   `koanf:"default_days"`
	MaxDays     int   `koanf:"max_days"`
	MinHistory  int   `koanf:"min_history"`
}

// WeatherConfig holds weather history settings.
//
// With provider=openmeteo, campsites without enough stored observations get
// their history from the Open-Meteo archive API. The synthetic generator is
// always the last resort.
type WeatherConfig struct {
	Provider          string        `koanf:"provider"` // "synthetic" or "openmeteo"
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	HistoryDays       int           `koanf:"history_days"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Seed              int64         `koanf:"seed"`

	// Circuit breaker settings (sony/gobreaker)
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"` // Consecutive failures before opening
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`      // Open-state duration before half-open
	BreakerInterval    time.Duration `koanf:"breaker_interval"`     // Closed-state counter reset interval
}

// TrainingConfig holds background training settings
type TrainingConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"` // 0 disables periodic retraining
}

// CacheConfig holds forecast response cache settings
type CacheConfig struct {
	ForecastTTL      time.Duration `koanf:"forecast_ttl"` // 0 disables the cache
	ForecastCapacity int           `koanf:"forecast_capacity"`
}

// SecurityConfig holds authentication and rate limiting settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}
