// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package supervisor runs the long-lived parts of the server under a
// thejerf/suture tree.
//
// Services in the services subpackage implement suture.Service: Serve
// blocks until its context is canceled and returns an error to request a
// restart. Supervisor events are logged through sutureslog, bridged to
// zerolog by logging.NewSlogHandler.
//
//	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddTrainingService(services.NewTrainingService(trainer, cfg, logger))
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
//	err := tree.Serve(ctx)
package supervisor
