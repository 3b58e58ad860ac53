// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package metrics registers the process-wide Prometheus instruments via
// promauto and exposes small helpers for the common record paths. All
// instruments use the default registry and are served by the /metrics
// endpoint.
package metrics
