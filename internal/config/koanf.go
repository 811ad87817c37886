// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/campkit/config.yaml",
	"/etc/campkit/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/campkit.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
			SeedData:  false,
		},
		Models: ModelsConfig{
			Backend:      "file",
			Path:         "/data/models",
			KeepVersions: 3,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
			Seed:         42,
			SelfMatch:    "drop_first",
		},
		Forecast: ForecastConfig{
			Trees:       100,
			MaxDepth:    0,
			MinLeaf:     1,
			Seed:        42,
			DefaultDays: 7,
			MaxDays:     30,
			MinHistory:  7,
		},
		Weather: WeatherConfig{
			Provider:           "synthetic",
			BaseURL:            "https://archive-api.open-meteo.com",
			Timeout:            10 * time.Second,
			HistoryDays:        30,
			RequestsPerSecond:  5,
			Burst:              1,
			Seed:               0, // 0 = seed from the clock
			BreakerMaxFailures: 5,
			BreakerTimeout:     60 * time.Second,
			BreakerInterval:    0,
		},
		Training: TrainingConfig{
			OnStartup: true,
			Interval:  24 * time.Hour,
		},
		Cache: CacheConfig{
			ForecastTTL:      15 * time.Minute,
			ForecastCapacity: 1000,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          30 * time.Minute,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in defaults without reading any source.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_data":         "database.seed_data",

	// Model store
	"models_backend":       "models.backend",
	"models_path":          "models.path",
	"models_keep_versions": "models.keep_versions",

	// Recommender
	"recommend_default_limit": "recommend.default_limit",
	"recommend_max_limit":     "recommend.max_limit",
	"recommend_seed":          "recommend.seed",
	"recommend_self_match":    "recommend.self_match",

	// Forecaster
	"forecast_trees":        "forecast.trees",
	"forecast_max_depth":    "forecast.max_depth",
	"forecast_min_leaf":     "forecast.min_leaf",
	"forecast_seed":         "forecast.seed",
	"forecast_default_days": "forecast.default_days",
	"forecast_max_days":     "forecast.max_days",
	"forecast_min_history":  "forecast.min_history",

	// Weather history
	"weather_provider":             "weather.provider",
	"weather_base_url":             "weather.base_url",
	"weather_timeout":              "weather.timeout",
	"weather_history_days":         "weather.history_days",
	"weather_requests_per_second":  "weather.requests_per_second",
	"weather_burst":                "weather.burst",
	"weather_seed":                 "weather.seed",
	"weather_breaker_max_failures": "weather.breaker_max_failures",
	"weather_breaker_timeout":      "weather.breaker_timeout",
	"weather_breaker_interval":     "weather.breaker_interval",

	// Training
	"train_on_startup": "training.on_startup",
	"train_interval":   "training.interval",

	// Cache
	"forecast_cache_ttl":      "cache.forecast_ttl",
	"forecast_cache_capacity": "cache.forecast_capacity",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - FORECAST_TREES -> forecast.trees
//
// Unmapped variables return "" and are skipped so unrelated environment
// variables cannot pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
