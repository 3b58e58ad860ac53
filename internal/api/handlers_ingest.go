// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/models"
	syncpkg "github.com/tomtom215/streamatlas/internal/sync"
)

// IngestTrigger starts a catalog refresh in the background and answers
// 202 immediately. A run already in flight yields 409; a refresh skipped
// by the snapshot-age gate is reported through /ingest/status, not here.
//
// The run is detached from the request context: a client disconnect must
// not abort a multi-minute ingest.
func (h *Handler) IngestTrigger(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Ingest manager not available", nil)
		return
	}

	if h.ingest.Status().Running {
		respondError(w, http.StatusConflict, "INGEST_CONFLICT", "An ingest run is already in progress", nil)
		return
	}

	go func() {
		err := h.ingest.Run(context.Background())
		switch {
		case err == nil:
			// A new snapshot exists; cached aggregates are stale.
			h.cache.Clear()
		case errors.Is(err, syncpkg.ErrRefreshSkipped):
			logging.Info().Msg("Triggered ingest skipped: latest snapshot is still fresh")
		case errors.Is(err, syncpkg.ErrRunInProgress):
			logging.Warn().Msg("Triggered ingest rejected: run already in progress")
		default:
			logging.Error().Err(err).Msg("Triggered ingest failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"message": "Ingest triggered"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// IngestStatus reports whether a run is in flight, the last run outcome,
// and the date of the newest snapshot.
func (h *Handler) IngestStatus(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Ingest manager not available", nil)
		return
	}

	start := time.Now()
	status := h.ingest.Status()

	if status.LastSnapshotDate == nil && h.db != nil {
		if latest, err := h.db.LatestSnapshotDate(r.Context()); err == nil {
			status.LastSnapshotDate = latest
		}
	}

	respondData(w, status, start)
}
