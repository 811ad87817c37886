// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package config

import (
	"fmt"
	"strings"
)

// minJWTSecretLength is the shortest accepted HS256 signing secret.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateModels(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateForecast(); err != nil {
		return err
	}
	if err := c.validateWeather(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateModels() error {
	switch c.Models.Backend {
	case "file":
		if c.Models.Path == "" {
			return fmt.Errorf("MODELS_PATH is required when MODELS_BACKEND=file")
		}
		if c.Models.KeepVersions < 1 {
			return fmt.Errorf("MODELS_KEEP_VERSIONS must be at least 1, got %d", c.Models.KeepVersions)
		}
	case "badger":
	default:
		return fmt.Errorf("MODELS_BACKEND must be 'file' or 'badger', got: %s", c.Models.Backend)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxLimit < 1 {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be at least 1, got %d", r.MaxLimit)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and %d, got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.SelfMatch != "drop_first" && r.SelfMatch != "filter_id" {
		return fmt.Errorf("RECOMMEND_SELF_MATCH must be 'drop_first' or 'filter_id', got: %s", r.SelfMatch)
	}
	return nil
}

func (c *Config) validateForecast() error {
	f := c.Forecast
	if f.Trees < 1 {
		return fmt.Errorf("FORECAST_TREES must be at least 1, got %d", f.Trees)
	}
	if f.MaxDepth < 0 {
		return fmt.Errorf("FORECAST_MAX_DEPTH must be >= 0, got %d", f.MaxDepth)
	}
	if f.MinLeaf < 1 {
		return fmt.Errorf("FORECAST_MIN_LEAF must be at least 1, got %d", f.MinLeaf)
	}
	if f.MaxDays < 1 {
		return fmt.Errorf("FORECAST_MAX_DAYS must be at least 1, got %d", f.MaxDays)
	}
	if f.DefaultDays < 1 || f.DefaultDays > f.MaxDays {
		return fmt.Errorf("FORECAST_DEFAULT_DAYS must be between 1 and %d, got %d", f.MaxDays, f.DefaultDays)
	}
	if f.MinHistory < 1 {
		return fmt.Errorf("FORECAST_MIN_HISTORY must be at least 1, got %d", f.MinHistory)
	}
	return nil
}

func (c *Config) validateWeather() error {
	w := c.Weather
	switch w.Provider {
	case "synthetic":
	case "openmeteo":
		if err := validateHTTPURL(w.BaseURL, "WEATHER_BASE_URL"); err != nil {
			return err
		}
		if w.Timeout <= 0 {
			return fmt.Errorf("WEATHER_TIMEOUT must be positive, got %v", w.Timeout)
		}
		if w.RequestsPerSecond <= 0 {
			return fmt.Errorf("WEATHER_REQUESTS_PER_SECOND must be positive, got %v", w.RequestsPerSecond)
		}
		if w.BreakerMaxFailures == 0 {
			return fmt.Errorf("WEATHER_BREAKER_MAX_FAILURES must be at least 1")
		}
	default:
		return fmt.Errorf("WEATHER_PROVIDER must be 'synthetic' or 'openmeteo', got: %s", w.Provider)
	}
	if w.HistoryDays < c.Forecast.MinHistory {
		return fmt.Errorf("WEATHER_HISTORY_DAYS (%d) must be at least FORECAST_MIN_HISTORY (%d)", w.HistoryDays, c.Forecast.MinHistory)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %v", c.Security.TokenTTL)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got: %s", c.Logging.Format)
	}
	return nil
}
