// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package models

import "time"

// APIResponse is the standard envelope for every JSON endpoint. Status is
// "success" or "error"; Error is populated only on error responses.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response observability fields. QueryTimeMS is the
// wall-clock time spent answering the request, in milliseconds; it is
// zero for cache hits.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error body with a machine-readable code.
//
// Common codes: VALIDATION_ERROR, DATABASE_ERROR, NOT_FOUND,
// INGEST_CONFLICT, METHOD_NOT_ALLOWED.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
