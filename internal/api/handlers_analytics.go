// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"net/http"
)

// AnalyticsPlatformCount returns the number of distinct platforms in the
// latest snapshot matching the filter selection.
func (h *Handler) AnalyticsPlatformCount(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to count platforms", func() (interface{}, error) {
		count, err := h.engine.PlatformCount(r.Context(), pred)
		return map[string]int{"platform_count": count}, err
	})
}

// AnalyticsMovieCount returns the distinct movie-title count.
func (h *Handler) AnalyticsMovieCount(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to count movies", func() (interface{}, error) {
		count, err := h.engine.MovieCount(r.Context(), pred)
		return map[string]int{"movie_count": count}, err
	})
}

// AnalyticsTVCount returns the distinct series-title count.
func (h *Handler) AnalyticsTVCount(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to count series", func() (interface{}, error) {
		count, err := h.engine.TVCount(r.Context(), pred)
		return map[string]int{"tv_count": count}, err
	})
}

// AnalyticsOverview returns per-platform average rating, average
// popularity, and distinct title counts.
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to compute overview", func() (interface{}, error) {
		return h.engine.Overview(r.Context(), pred)
	})
}

// AnalyticsTitleCounts returns per-platform movie/series/total title
// counts.
func (h *Handler) AnalyticsTitleCounts(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to compute title counts", func() (interface{}, error) {
		return h.engine.TitleCounts(r.Context(), pred)
	})
}

// AnalyticsQuality returns the per-title rating points used for the
// quality distribution chart. Unrated titles are excluded.
func (h *Handler) AnalyticsQuality(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to load quality distribution", func() (interface{}, error) {
		return h.engine.Quality(r.Context(), pred)
	})
}

// AnalyticsTopGenres returns the highest-volume genres per platform.
func (h *Handler) AnalyticsTopGenres(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to rank genres", func() (interface{}, error) {
		return h.engine.TopGenres(r.Context(), pred)
	})
}

// AnalyticsTopCountries returns the highest-volume production countries
// per platform and media type.
func (h *Handler) AnalyticsTopCountries(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to rank countries", func() (interface{}, error) {
		return h.engine.TopCountries(r.Context(), pred)
	})
}

// AnalyticsRecent returns per-platform title counts by release year from
// the configured floor year onward.
func (h *Handler) AnalyticsRecent(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	minYear := h.config.API.RecentYearFloor
	h.respondCached(w, r, "Failed to load recent content", func() (interface{}, error) {
		return h.engine.RecentContent(r.Context(), pred, minYear)
	})
}

// AnalyticsDiversity returns per-platform genre richness, dominance, and
// Shannon diversity.
func (h *Handler) AnalyticsDiversity(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to compute diversity", func() (interface{}, error) {
		return h.engine.Diversity(r.Context(), pred)
	})
}

// AnalyticsChange returns per-platform catalog gains and losses between
// the two most recent snapshots matching the filter selection.
func (h *Handler) AnalyticsChange(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.compileFilter(w, r)
	if !ok {
		return
	}
	h.respondCached(w, r, "Failed to compute catalog change", func() (interface{}, error) {
		return h.engine.CatalogChange(r.Context(), pred)
	})
}
