// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamatlas/internal/cache"
	"github.com/tomtom215/streamatlas/internal/filter"
	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/models"
)

// sanitizeLogValue strips control characters so attacker-supplied strings
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes the standard envelope with caching headers and a
// content-derived ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes the payload with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError writes an error envelope and logs the underlying cause.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondData writes a success envelope with the elapsed query time.
func respondData(w http.ResponseWriter, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondCached serves from the TTL cache when possible, otherwise runs
// compute, caches the result, and responds. errMessage is the
// client-facing message on compute failure.
func (h *Handler) respondCached(w http.ResponseWriter, r *http.Request, errMessage string, compute func() (interface{}, error)) {
	start := time.Now()
	key := cache.GenerateKey(r.URL.Path, r.URL.RawQuery)

	if data, ok := h.cache.Get(key); ok {
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data:   data,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
				Cached:    true,
			},
		})
		return
	}

	data, err := compute()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", errMessage, err)
		return
	}

	h.cache.Set(key, data)
	respondData(w, data, start)
}

// parseFilterState decodes the seven filter dimensions from query
// parameters into a filter.State. Set dimensions are comma-separated
// lists; range dimensions arrive as _min/_max pairs and default to the
// declared bound when one end is absent.
//
//	?media_types=movie&platforms=Netflix,Hulu&rating_min=6&year_max=2020
func parseFilterState(r *http.Request, bounds filter.Bounds) (filter.State, error) {
	q := r.URL.Query()
	state := filter.State{
		MediaTypes: splitParam(q.Get("media_types")),
		Platforms:  splitParam(q.Get("platforms")),
		Genres:     splitParam(q.Get("genres")),
		Countries:  splitParam(q.Get("countries")),
		Languages:  splitParam(q.Get("languages")),
	}

	ratingMin, ratingMax := bounds.RatingMin, bounds.RatingMax
	ratingSet := false
	if v := q.Get("rating_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return state, fmt.Errorf("invalid rating_min %q", v)
		}
		ratingMin, ratingSet = f, true
	}
	if v := q.Get("rating_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return state, fmt.Errorf("invalid rating_max %q", v)
		}
		ratingMax, ratingSet = f, true
	}
	if ratingSet {
		if ratingMin > ratingMax {
			return state, fmt.Errorf("rating_min %v exceeds rating_max %v", ratingMin, ratingMax)
		}
		state.Rating = []float64{ratingMin, ratingMax}
	}

	yearMin, yearMax := bounds.YearMin, bounds.YearMax
	yearSet := false
	if v := q.Get("year_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, fmt.Errorf("invalid year_min %q", v)
		}
		yearMin, yearSet = n, true
	}
	if v := q.Get("year_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return state, fmt.Errorf("invalid year_max %q", v)
		}
		yearMax, yearSet = n, true
	}
	if yearSet {
		if yearMin > yearMax {
			return state, fmt.Errorf("year_min %d exceeds year_max %d", yearMin, yearMax)
		}
		state.ReleaseYears = []int{yearMin, yearMax}
	}

	return state, nil
}

// splitParam splits a comma-separated query value, dropping empty items.
func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// compileFilter parses and compiles the request's filter selection,
// writing a 400 response itself when the parameters are malformed. The
// returned bool reports whether the caller may proceed.
func (h *Handler) compileFilter(w http.ResponseWriter, r *http.Request) (filter.Predicate, bool) {
	state, err := parseFilterState(r, h.bounds)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return filter.Predicate{}, false
	}
	return filter.Compile(state, h.bounds), true
}
