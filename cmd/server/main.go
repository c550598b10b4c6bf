// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/presto/internal/api"
	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/recommend"
	"github.com/tomtom215/presto/internal/supervisor"
	"github.com/tomtom215/presto/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Config not yet available, so this goes through the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("driver", cfg.Database.Driver).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Presto")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows every origin in production; set CORS_ORIGINS")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store, breaker := newStore(db, cfg)

	engine, err := recommend.NewEngine(recommend.ConfigFrom(cfg.Recommend), store, logging.WithComponent("recommend"))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create recommendation engine")
		return
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	closeProgress, err := initIngest(cfg, db, tree)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize startup ingest")
		return
	}
	defer func() {
		if err := closeProgress(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest progress store")
		}
	}()

	if cfg.Metrics.Enabled && cfg.Metrics.StoreInterval > 0 {
		tree.AddDataService(services.NewStoreStatsService(db, cfg.Metrics.StoreInterval, logging.WithComponent("metrics")))
	}

	handler := api.NewHandler(engine, db, breaker, cfg)
	middleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security))
	router := api.NewRouter(handler, middleware, cfg.Metrics)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Presto stopped")
}

// newStore wraps the database in a circuit breaker when enabled. breaker
// stays a nil interface otherwise so health reports omit it.
func newStore(db *database.DB, cfg *config.Config) (recommend.Store, api.BreakerState) {
	if !cfg.Database.Breaker.Enabled {
		return db, nil
	}
	b := database.NewBreakerStore(db, cfg.Database.Breaker)
	logging.Info().
		Uint32("failure_threshold", cfg.Database.Breaker.FailureThreshold).
		Dur("timeout", cfg.Database.Breaker.Timeout).
		Msg("Store circuit breaker enabled")
	return b, b
}
