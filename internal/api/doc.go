// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
Package api provides the HTTP REST layer consumed by the dashboard.

Every endpoint returns the models.APIResponse envelope as JSON. Analytics
endpoints accept the seven filter dimensions as query parameters, compile
them into a filter.Predicate, and delegate to the analytics engine, so the
HTTP layer never interprets filter semantics itself.

Route groups:

 1. Health (/api/v1/health): liveness, readiness, and a combined status
    endpoint reporting database connectivity and last snapshot age.
 2. Filters (/api/v1/filters/options): distinct dimension values for
    populating the dashboard filter widgets.
 3. Analytics (/api/v1/analytics/*): platform counts, overview averages,
    quality scatter, top genres and countries, genre diversity, recent
    content, and snapshot-over-snapshot catalog change.
 4. Ingest (/api/v1/ingest/*): manual refresh trigger and run status.
 5. Observability (/metrics): Prometheus exposition.

Handler methods are split across files by concern: handlers_health.go,
handlers_filters.go, handlers_analytics.go, handlers_ingest.go, with
shared response and parsing helpers in handlers_helpers.go.
*/
package api
