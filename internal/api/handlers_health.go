// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/models"
)

// Health reports the combined service status: database connectivity plus
// the age of the newest catalog snapshot. The service is "degraded" rather
// than unhealthy when the fact table is empty, since analytics endpoints
// still answer (with empty results) before the first ingest completes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	var lastSnapshot *time.Time
	if dbConnected {
		latest, err := h.db.LatestSnapshotDate(r.Context())
		if err != nil {
			logging.Warn().Err(err).Msg("Health check could not read latest snapshot date")
		} else {
			lastSnapshot = latest
		}
	}

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		LastSnapshotDate:  lastSnapshot,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	code := http.StatusOK
	if !dbConnected {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive is the liveness probe: 200 whenever the process is serving,
// regardless of dependency state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady is the readiness probe: 200 only when the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database is not reachable", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]bool{"ready": true},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
