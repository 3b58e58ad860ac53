// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package models defines data structures used throughout the StreamAtlas
// application: staging entities produced by ingestion, lookup rows, the
// denormalized analytics fact row, and aggregate result shapes returned
// by the analytics engine.

package models

import "time"

// Media type values used across catalogs, details, and fact rows.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Platform represents a streaming service discovered for the configured
// catalog type and region. Staged fresh on every ingestion run.
type Platform struct {
	ID     int    `json:"platform_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`   // sub, free, purchase, tve
	Region string `json:"region"` // Two-letter region code
}

// CatalogEntry is one (platform, title) listing pulled from the catalog API.
// A title streaming on three platforms produces three entries.
type CatalogEntry struct {
	TitleID        int    `json:"title_id"` // Listing API title identifier
	Title          string `json:"title"`
	Year           int    `json:"year"`
	IMDBID         string `json:"imdb_id"`
	TMDBID         int    `json:"tmdb_id"`
	TMDBType       string `json:"tmdb_type"` // movie or tv
	PlatformID     int    `json:"platform_id"`
	PlatformType   string `json:"platform_type"`
	PlatformRegion string `json:"platform_region"`
}

// TitleDetail is the reconciled per-title metadata record. Movie and series
// responses are normalized into this one shape before staging: series get
// title from name, release date from first air date, and an estimated
// runtime of mean(episode_run_time) * number_of_episodes. Pointer fields
// stay nil when the upstream record lacked the inputs.
type TitleDetail struct {
	TitleID          int        `json:"title_id"`
	TMDBID           int        `json:"tmdb_id"`
	TMDBType         string     `json:"tmdb_type"`
	Title            string     `json:"title"`
	OriginalLanguage string     `json:"original_language"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
	Status           string     `json:"status"`
	Runtime          *float64   `json:"runtime,omitempty"` // Minutes; estimated for series
	VoteAverage      *float64   `json:"vote_average,omitempty"`
	VoteCount        *int       `json:"vote_count,omitempty"`
	Popularity       *float64   `json:"popularity,omitempty"`
}

// TitleRef identifies one distinct staged title awaiting a detail pull.
type TitleRef struct {
	TitleID  int    `json:"title_id"`
	TMDBID   int    `json:"tmdb_id"`
	TMDBType string `json:"tmdb_type"`
}

// TitleGenre is one (title, genre) relation row. A title legitimately has
// zero, one, or many.
type TitleGenre struct {
	TitleID  int    `json:"title_id"`
	TMDBType string `json:"tmdb_type"`
	Genre    string `json:"genre"` // Upstream genre name, unified at merge time
}

// TitleCountry is one (title, origin country) relation row.
type TitleCountry struct {
	TitleID     int    `json:"title_id"`
	CountryCode string `json:"country_code"`
}

// Genre is a lookup row mapping an upstream genre to its unified display
// label. Closely related movie/series genres share a unified name so they
// group together in analytics ("Action" and "Adventure" both become
// "Action & Adventure").
type Genre struct {
	TMDBGenreID int    `json:"tmdb_genre_id"`
	TMDBType    string `json:"tmdb_type"`
	TMDBName    string `json:"tmdb_name"`
	UnifiedName string `json:"unified_name"`
}

// Country is a lookup row mapping an ISO 3166-1 code to display names.
type Country struct {
	Code        string `json:"country_code"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name"`
}

// Language is a lookup row mapping an ISO 639-1 code to display names.
type Language struct {
	Code        string `json:"language_code"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}
