// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"context"
	"time"

	"github.com/tomtom215/streamatlas/internal/analytics"
	"github.com/tomtom215/streamatlas/internal/cache"
	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/database"
	"github.com/tomtom215/streamatlas/internal/filter"
	"github.com/tomtom215/streamatlas/internal/models"
)

// cacheTTL bounds staleness for analytics responses between snapshot
// refreshes. The cache is also cleared after every completed ingest run.
const cacheTTL = 5 * time.Minute

// Version is the reported application version, overridable at build time
// with -ldflags "-X github.com/tomtom215/streamatlas/internal/api.Version=...".
var Version = "dev"

// IngestManager is the slice of the ingestion manager the HTTP layer
// needs. Narrowed to an interface so handler tests can substitute fakes.
type IngestManager interface {
	Run(ctx context.Context) error
	Status() models.IngestStatus
}

// Handler holds the dependencies shared by all endpoint methods.
type Handler struct {
	db        *database.DB
	engine    *analytics.Engine
	ingest    IngestManager
	config    *config.Config
	bounds    filter.Bounds
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates the API handler. The filter bounds are derived from
// configuration once so every analytics request compiles predicates
// against the same declared dimension ranges.
func NewHandler(db *database.DB, engine *analytics.Engine, ingest IngestManager, cfg *config.Config) *Handler {
	bounds := filter.DefaultBounds()
	if cfg != nil {
		bounds.YearMin = cfg.API.YearMin
		bounds.YearMax = cfg.API.YearMax
	}
	return &Handler{
		db:        db,
		engine:    engine,
		ingest:    ingest,
		config:    cfg,
		bounds:    bounds,
		cache:     cache.New(cacheTTL),
		startTime: time.Now(),
	}
}
