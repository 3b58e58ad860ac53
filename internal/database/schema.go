// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
schema.go - Database Schema Management

Tables fall into three groups:

Permanent:
  - analytics: append-only denormalized fact table, one row per
    (date, platform, title, genre, country) combination. Rows for a date
    are never mutated after the merge that wrote them.

Lookups (seeded once, then static):
  - genres: upstream genre names mapped to unified display labels
  - countries: ISO 3166-1 codes mapped to display names
  - languages: ISO 639-1 codes mapped to display names

Staging (run-scoped, truncated at run start and after a successful merge):
  - platforms, catalogs, title_details, title_genres, title_countries

Staging tables are ordinary tables rather than TEMPORARY ones so that a
run aborted midway leaves inspectable state; the next run clears them
before writing.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates all tables and indexes if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

var tableCreationQueries = []string{
	// Permanent fact table. Dimension columns are nullable because the
	// merge joins are outer: a title with an unresolved genre, country,
	// or language still gets a row.
	`CREATE TABLE IF NOT EXISTS analytics (
		date         DATE NOT NULL,
		platform     TEXT,
		media_type   TEXT NOT NULL,
		tmdb_id      INTEGER NOT NULL,
		title_id     INTEGER NOT NULL,
		release_year INTEGER,
		vote_count   INTEGER,
		vote_average DOUBLE,
		popularity   DOUBLE,
		genre        TEXT,
		country      TEXT,
		language     TEXT
	)`,

	// Lookup tables
	`CREATE TABLE IF NOT EXISTS genres (
		tmdb_genre_id INTEGER,
		tmdb_type     TEXT NOT NULL,
		tmdb_name     TEXT NOT NULL,
		unified_name  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		country_code TEXT PRIMARY KEY,
		english_name TEXT,
		native_name  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		language_code TEXT PRIMARY KEY,
		english_name  TEXT,
		name          TEXT
	)`,

	// Staging tables
	`CREATE TABLE IF NOT EXISTS platforms (
		platform_id INTEGER PRIMARY KEY,
		name        TEXT,
		type        TEXT NOT NULL,
		region      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalogs (
		title_id        INTEGER,
		title           TEXT,
		year            INTEGER,
		imdb_id         TEXT,
		tmdb_id         INTEGER NOT NULL,
		tmdb_type       TEXT NOT NULL,
		platform_type   TEXT NOT NULL,
		platform_region TEXT NOT NULL,
		platform_id     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS title_details (
		title_id          INTEGER NOT NULL,
		tmdb_id           INTEGER NOT NULL,
		tmdb_type         TEXT NOT NULL,
		title             TEXT,
		original_language TEXT,
		release_date      DATE,
		status            TEXT,
		runtime           DOUBLE,
		vote_average      DOUBLE,
		vote_count        INTEGER,
		popularity        DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS title_genres (
		title_id  INTEGER NOT NULL,
		tmdb_type TEXT NOT NULL,
		genre     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS title_countries (
		title_id     INTEGER NOT NULL,
		country_code TEXT NOT NULL
	)`,

	// Indexes for the analytics read path
	`CREATE INDEX IF NOT EXISTS idx_analytics_date ON analytics(date)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_title ON analytics(title_id)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_platform ON analytics(platform)`,
}

// stagingTables lists the run-scoped tables in clearing order.
var stagingTables = []string{
	"platforms",
	"catalogs",
	"title_details",
	"title_genres",
	"title_countries",
}
