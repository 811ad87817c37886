// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/cache"
	"github.com/tomtom215/campkit/internal/config"
	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/forecast"
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/modelstore"
	"github.com/tomtom215/campkit/internal/recommend"
	"github.com/tomtom215/campkit/internal/training"
	"github.com/tomtom215/campkit/internal/weather"
)

// components holds everything both subcommands share.
type components struct {
	db          *database.DB
	store       *modelstore.Store
	recommender *recommend.Recommender
	forecaster  *forecast.Forecaster
	weather     *weather.Provider
	trainer     *training.Trainer
	cache       *cache.ForecastCache
}

// initComponents opens the database and model store and builds the models
// on top of them. The caller must call close.
func initComponents(cfg *config.Config) (*components, error) {
	logger := logging.Logger()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logging.Info().Str("path", cfg.Database.Path).Bool("seed", cfg.Database.SeedData).Msg("Database initialized")

	backend, err := openBackend(&cfg.Models)
	if err != nil {
		closeLogged("database", db.Close)
		return nil, err
	}
	store := modelstore.New(backend, logger)
	logging.Info().Str("backend", cfg.Models.Backend).Str("path", cfg.Models.Path).Msg("Model store opened")

	c := &components{db: db, store: store}

	c.recommender, err = recommend.NewRecommender(store, recommendConfig(cfg), logger)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to create recommender: %w", err)
	}

	c.forecaster, err = forecast.NewForecaster(store, forecastConfig(cfg), logger)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to create forecaster: %w", err)
	}

	c.weather = weather.NewProvider(db, archiveFor(cfg, logger), cfg.Weather.HistoryDays,
		cfg.Forecast.MinHistory, cfg.Weather.Seed, logger)

	c.trainer = training.NewTrainer(db, c.recommender, c.forecaster, c.weather, cfg.Forecast.MinHistory, logger)

	if cfg.Cache.ForecastTTL > 0 {
		c.cache = cache.NewForecastCache(cfg.Cache.ForecastCapacity, cfg.Cache.ForecastTTL)
		c.trainer.OnTrained(c.cache.Invalidate)
	}

	return c, nil
}

func (c *components) close() {
	if c.store != nil {
		closeLogged("model store", c.store.Close)
	}
	if c.db != nil {
		closeLogged("database", c.db.Close)
	}
}

func closeLogged(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("Error closing")
	}
}

func openBackend(cfg *config.ModelsConfig) (modelstore.Backend, error) {
	switch cfg.Backend {
	case "badger":
		b, err := modelstore.OpenBadgerBackend(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger model store: %w", err)
		}
		return b, nil
	case "file", "":
		b, err := modelstore.NewFileBackend(cfg.Path, cfg.KeepVersions)
		if err != nil {
			return nil, fmt.Errorf("failed to open file model store: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("unknown model store backend: " + cfg.Backend)
	}
}

// archiveFor returns the Open-Meteo client when it is the configured
// provider. The interface stays nil otherwise so the provider skips it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func archiveFor(cfg *config.Config, logger zerolog.Logger) weather.Archive {
	if cfg.Weather.Provider != "openmeteo" {
		return nil
	}
	logging.Info().Str("base_url", cfg.Weather.BaseURL).Msg("Open-Meteo archive enabled")
	return weather.NewClient(&cfg.Weather, logger)
}

func recommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		DefaultLimit: cfg.Recommend.DefaultLimit,
		MaxLimit:     cfg.Recommend.MaxLimit,
		Seed:         cfg.Recommend.Seed,
		SelfMatch:    recommend.SelfMatchPolicy(cfg.Recommend.SelfMatch),
	}
}

func forecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		Trees:       cfg.Forecast.Trees,
		MaxDepth:    cfg.Forecast.MaxDepth,
		MinLeaf:     cfg.Forecast.MinLeaf,
		Seed:        cfg.Forecast.Seed,
		DefaultDays: cfg.Forecast.DefaultDays,
		MaxDays:     cfg.Forecast.MaxDays,
		MinHistory:  cfg.Forecast.MinHistory,
	}
}
