// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package main is the one-shot StreamAtlas ingest runner, intended as a
// cron entry point for deployments that do not run the long-lived server.
//
// It performs exactly one ingestion run and exits: 0 on a completed or
// gate-skipped run, 1 on failure. The source type and region must be
// stated explicitly so a misconfigured cron job cannot silently crawl
// the wrong catalog:
//
//	streamatlas-ingest -source-type sub -source-region US
//
// All other settings come from the usual configuration sources.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/database"
	"github.com/tomtom215/streamatlas/internal/logging"
	syncpkg "github.com/tomtom215/streamatlas/internal/sync"
)

func main() {
	sourceType := flag.String("source-type", "", "platform source type to ingest (e.g. sub, free)")
	sourceRegion := flag.String("source-region", "", "platform region to ingest (e.g. US, GB)")
	force := flag.Bool("force", false, "run even when the latest snapshot is younger than the refresh threshold")
	flag.Parse()

	if *sourceType == "" || *sourceRegion == "" {
		logging.Fatal().Msg("Both -source-type and -source-region are required")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// The flags narrow the crawl to a single type and region for this run.
	cfg.Watchmode.SourceTypes = []string{*sourceType}
	cfg.Watchmode.Regions = []string{*sourceRegion}
	if *force {
		cfg.Ingest.MinRefreshDays = 0
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal, canceling run")
		cancel()
	}()

	manager := syncpkg.NewManager(cfg, db)

	logging.Info().
		Str("source_type", *sourceType).
		Str("source_region", *sourceRegion).
		Msg("Starting one-shot ingest run")

	err = manager.Run(ctx)
	switch {
	case err == nil:
		logging.Info().Msg("Ingest run completed")
	case errors.Is(err, syncpkg.ErrRefreshSkipped):
		logging.Info().Msg("Ingest skipped: latest snapshot is still fresh (use -force to override)")
	default:
		logging.Error().Err(err).Msg("Ingest run failed")
		// Let deferred cleanup run before exiting nonzero.
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		os.Exit(1)
	}
}
