// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package models

// WatchmodeSource is one streaming service entry from the sources endpoint.
type WatchmodeSource struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Regions []string `json:"regions"`
}

// WatchmodeTitle is one title stub from the paginated list-titles endpoint.
type WatchmodeTitle struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Year     int    `json:"year"`
	IMDBID   string `json:"imdb_id"`
	TMDBID   int    `json:"tmdb_id"`
	TMDBType string `json:"tmdb_type"` // movie or tv
	Type     string `json:"type"`      // Watchmode's own type label, unused downstream
}

// WatchmodeListTitlesResponse is one page of the list-titles endpoint.
// Page and TotalPages are server-reported; the paginator reads both from
// every response rather than assuming an initial total.
type WatchmodeListTitlesResponse struct {
	Titles       []WatchmodeTitle `json:"titles"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
}
