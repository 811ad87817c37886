// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/training"
)

// Trainer is satisfied by *training.Trainer.
type Trainer interface {
	Train(ctx context.Context) training.Result
}

// TrainingServiceConfig configures periodic retraining.
type TrainingServiceConfig struct {
	// TrainOnStartup trains both models when the service starts.
	TrainOnStartup bool

	// Interval between retrains. Default: 24h.
	Interval time.Duration

	// Timeout bounds a single training run. Default: 30m.
	Timeout time.Duration
}

// TrainingService retrains the models on a schedule.
type TrainingService struct {
	trainer Trainer
	config  TrainingServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainingService creates the periodic training service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrainingService(trainer Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &TrainingService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "training").Logger(),
		name:    "training-service",
	}
}

// Serve trains on startup when configured, then on every tick until ctx is
// canceled. Training failures are logged and retried on the next tick;
// they never restart the service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Training service starting")

	if s.config.TrainOnStartup {
		s.train(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Training service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx)
		}
	}
}

func (s *TrainingService) train(ctx context.Context) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	res := s.trainer.Train(trainCtx)
	if err := res.Err(); err != nil {
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Scheduled training failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Scheduled training complete")
}

// String implements fmt.Stringer for suture logging.
func (s *TrainingService) String() string {
	return s.name
}
