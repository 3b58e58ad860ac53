// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
Package middleware provides infrastructure HTTP middleware shared by all
routes: request ID tracking, Prometheus instrumentation, and gzip
compression.

These are plain func(http.HandlerFunc) http.HandlerFunc wrappers so they
compose directly and adapt to chi's func(http.Handler) http.Handler form
through a one-line shim in the api package. Routing-level concerns (CORS,
rate limiting) live with the router configuration instead.
*/
package middleware
