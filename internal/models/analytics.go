// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package models

import "time"

// AnalyticsFact is one denormalized row of the append-only fact table,
// produced by the snapshot merger for every (date, platform, title, genre,
// country) combination.
//
// Fan-out invariant: a title with 3 genres and 2 countries on one platform
// on one date produces up to 6 fact rows. Any "distinct title" metric must
// deduplicate on TitleID, never count raw fact rows. Rows for a given date
// are never mutated once written.
//
// Dimension fields are pointers because the merge joins are outer: a title
// whose genre, country, or language failed to resolve still produces a row
// with a nil dimension rather than being dropped.
type AnalyticsFact struct {
	Date        time.Time `json:"date"`
	Platform    string    `json:"platform"`
	MediaType   string    `json:"media_type"`
	TMDBID      int       `json:"tmdb_id"`
	TitleID     int       `json:"title_id"`
	ReleaseYear *int      `json:"release_year,omitempty"`
	VoteCount   *int      `json:"vote_count,omitempty"`
	VoteAverage *float64  `json:"vote_average,omitempty"`
	Popularity  *float64  `json:"popularity,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	Country     *string   `json:"country,omitempty"`
	Language    *string   `json:"language,omitempty"`
}

// OverviewRow holds per-platform summary stats. Means and counts are
// computed over deduplicated (platform, title) pairs.
type OverviewRow struct {
	Platform          string  `json:"platform"`
	AverageRating     float64 `json:"average_rating"`
	AveragePopularity float64 `json:"average_popularity"`
	TitleCount        int     `json:"title_count"`
}

// TitleCountRow holds distinct title counts per platform, split by type.
type TitleCountRow struct {
	Platform string `json:"platform"`
	Movies   int    `json:"movies"`
	TV       int    `json:"tv"`
	Total    int    `json:"total"`
}

// QualityPoint is one deduplicated (platform, title, rating) observation.
// Returned unaggregated so clients can render their own distribution.
type QualityPoint struct {
	Platform    string  `json:"platform"`
	TitleID     int     `json:"title_id"`
	VoteAverage float64 `json:"vote_average"`
}

// GenreRank is one row of a top-N genre ranking for a platform.
type GenreRank struct {
	Platform   string `json:"platform"`
	Genre      string `json:"genre"`
	TitleCount int    `json:"title_count"`
}

// CountryRank is one row of a top-N country ranking for a
// (platform, media type) pair.
type CountryRank struct {
	Platform   string `json:"platform"`
	MediaType  string `json:"media_type"`
	Country    string `json:"country"`
	TitleCount int    `json:"title_count"`
}

// RecentContentRow holds the distinct title count for one
// (platform, release year) pair at or above the configured year floor.
type RecentContentRow struct {
	Platform    string `json:"platform"`
	ReleaseYear int    `json:"release_year"`
	TitleCount  int    `json:"title_count"`
}

// DiversityRow holds genre diversity measures for one platform, derived
// from the share of the platform's distinct titles carrying each genre.
type DiversityRow struct {
	Platform  string  `json:"platform"`
	Richness  int     `json:"richness"`  // Genres with a nonzero share
	Dominance float64 `json:"dominance"` // Largest single genre share
	Shannon   float64 `json:"shannon"`   // -sum(p*ln p) over nonzero shares
}

// CatalogKey identifies a title's presence on one platform within a single
// snapshot. Comparing key sets across two snapshot dates yields gains and
// losses.
type CatalogKey struct {
	Platform  string `json:"platform"`
	TitleID   int    `json:"title_id"`
	MediaType string `json:"media_type"`
}

// CatalogChangeRow holds period-over-period catalog movement for one
// platform between the two most recent snapshot dates. Losses are reported
// as non-positive numbers; NetChange is the sum of all four fields.
type CatalogChangeRow struct {
	Platform    string `json:"platform"`
	MovieGained int    `json:"movie_gained"`
	MovieLost   int    `json:"movie_lost"`
	TVGained    int    `json:"tv_gained"`
	TVLost      int    `json:"tv_lost"`
	NetChange   int    `json:"net_change"`
}

// FilterOptions lists the distinct dimension values present in the fact
// table, used by dashboard clients to populate filter widgets.
type FilterOptions struct {
	Platforms []string `json:"platforms"`
	Genres    []string `json:"genres"`
	Languages []string `json:"languages"`
	Countries []string `json:"countries"`
}

// IngestStatus reports the state of the ingestion pipeline for the API.
type IngestStatus struct {
	Running          bool       `json:"running"`
	LastSnapshotDate *time.Time `json:"last_snapshot_date,omitempty"`
	LastRunID        string     `json:"last_run_id,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	LastSnapshotDate  *time.Time `json:"last_snapshot_date,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}
