// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/logging"
)

// Scheduler drives periodic ingestion runs. It implements suture.Service
// and runs under the application supervision tree.
type Scheduler struct {
	manager      *Manager
	interval     time.Duration
	runOnStartup bool
}

// NewScheduler returns a scheduler ticking at cfg.Interval.
func NewScheduler(manager *Manager, cfg *config.IngestConfig) *Scheduler {
	return &Scheduler{
		manager:      manager,
		interval:     cfg.Interval,
		runOnStartup: cfg.RunOnStartup,
	}
}

// Serve runs scheduled ingestion until the context is canceled. Skipped
// and failed runs are logged and the schedule continues; only context
// cancellation ends the service.
func (s *Scheduler) Serve(ctx context.Context) error {
	if s.runOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	err := s.manager.Run(ctx)
	switch {
	case err == nil, errors.Is(err, ErrRefreshSkipped):
		// Run outcomes are logged by the manager.
	case errors.Is(err, ErrRunInProgress):
		logging.Warn().Msg("Scheduled ingestion tick overlapped a running ingestion; skipping")
	case errors.Is(err, context.Canceled):
	default:
		logging.Error().Err(err).Msg("Scheduled ingestion run failed")
	}
}

// String names the service in supervisor logs.
func (s *Scheduler) String() string {
	return "ingest-scheduler"
}
