// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/campkit/internal/api"
	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/config"
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/supervisor"
	"github.com/tomtom215/campkit/internal/supervisor/services"
)

// startupTrainTimeout bounds the one-shot training run used when periodic
// training is disabled.
const startupTrainTimeout = 30 * time.Minute

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	switch cmd {
	case "serve":
		err = serve(cfg)
	case "train":
		err = train(cfg)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [serve|train]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "  serve  run the HTTP API with background training (default)")
	fmt.Fprintln(os.Stderr, "  train  train both models once and exit")
}

// train fits both models against the configured database and exits.
func train(cfg *config.Config) error {
	c, err := initComponents(cfg)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res := c.trainer.Train(ctx)
	if err := res.Err(); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	logging.Info().Dur("duration", time.Since(start)).Msg("Models trained")
	return nil
}

// serve runs the API and the training service under the supervisor tree
// until SIGINT or SIGTERM.
func serve(cfg *config.Config) error {
	logging.Info().Msg("Starting campkit with supervisor tree")

	c, err := initComponents(cfg)
	if err != nil {
		return err
	}
	defer c.close()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT manager: %w", err)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS in production")
			break
		}
	}

	handler := api.NewHandler(&api.Dependencies{
		DB:          c.db,
		Store:       c.store,
		Recommender: c.recommender,
		Forecaster:  c.forecaster,
		Weather:     c.weather,
		Trainer:     c.trainer,
		JWT:         jwtManager,
		Cache:       c.cache,
	})
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})

	switch {
	case cfg.Training.Interval > 0:
		tree.AddTrainingService(services.NewTrainingService(c.trainer, services.TrainingServiceConfig{
			TrainOnStartup: cfg.Training.OnStartup,
			Interval:       cfg.Training.Interval,
		}, logging.Logger()))
		logging.Info().Dur("interval", cfg.Training.Interval).Msg("Training service added")
	case cfg.Training.OnStartup:
		trainCtx, trainCancel := context.WithTimeout(ctx, startupTrainTimeout)
		if err := c.trainer.Train(trainCtx).Err(); err != nil {
			logging.Warn().Err(err).Msg("Startup training failed, models will train on first use")
		}
		trainCancel()
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
