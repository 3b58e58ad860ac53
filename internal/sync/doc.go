// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package sync implements the ingestion pipeline: it pulls streaming
// platforms, their catalogs, and per-title metadata from the two upstream
// APIs, reconciles movie and series response shapes into one detail model,
// stages everything relationally, and merges staging into a dated snapshot
// of the analytics fact table.
//
// The pipeline is sequential and I/O-bound. A run either completes the
// merge or leaves staging behind for the next run to clear; the permanent
// fact table only ever grows by whole snapshots. A single Manager enforces
// one run at a time per process, gated by the minimum refresh interval
// against the newest snapshot date.
//
// Upstream access goes through a shared retrying HTTP client (fixed-delay
// retries, client-side rate limiting, Retry-After handling) wrapped in a
// circuit breaker so a dead upstream fails fast instead of burning the
// whole retry budget per request.
package sync
