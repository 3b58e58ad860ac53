// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package main is the long-running StreamAtlas server.
//
// StreamAtlas tracks the composition of streaming-platform catalogs over
// time. This mode runs two supervised subsystems:
//
//  1. The ingest scheduler, which periodically refreshes the catalog
//     snapshot from the listing and metadata upstreams (gated on
//     snapshot age, so restarts never cause redundant crawls).
//  2. The HTTP API, which serves the dashboard: filtered analytics over
//     the latest snapshot, filter option lists, health probes, manual
//     ingest triggering, and Prometheus metrics.
//
// Startup order: configuration (koanf: file, env, defaults), logging
// (zerolog), DuckDB, ingest manager, analytics engine, HTTP router,
// supervisor tree. Shutdown is graceful on SIGINT/SIGTERM: the HTTP
// server drains in-flight requests and an in-flight ingest run is
// canceled through its context.
//
// Example:
//
//	export WATCHMODE_API_KEY=...
//	export TMDB_API_KEY=...
//	export DATABASE_PATH=/data/streamatlas.db
//	./streamatlas
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/streamatlas/internal/analytics"
	"github.com/tomtom215/streamatlas/internal/api"
	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/database"
	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/supervisor"
	"github.com/tomtom215/streamatlas/internal/supervisor/services"
	syncpkg "github.com/tomtom215/streamatlas/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Strs("source_types", cfg.Watchmode.SourceTypes).
		Strs("regions", cfg.Watchmode.Regions).
		Dur("ingest_interval", cfg.Ingest.Interval).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := syncpkg.NewManager(cfg, db)

	var engine *analytics.Engine
	switch cfg.API.AnalyticsBackend {
	case "memory":
		engine, err = analytics.NewSnapshotEngine(ctx, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to load in-memory analytics snapshot")
		}
		logging.Info().Msg("Analytics backend: in-memory snapshot loaded at startup")
	default:
		engine = analytics.NewEngine(db)
	}

	handler := api.NewHandler(db, engine, manager, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.API)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddIngestService(syncpkg.NewScheduler(manager, &cfg.Ingest))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
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
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
