// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package filter defines the seven-dimension filter selection supplied by
// dashboard clients and compiles it into a normalized Predicate.
//
// The Predicate is the single representation consumed by both analytics
// back ends: the database layer lowers it into a parameterized WHERE
// clause, and the in-memory snapshot evaluates it row by row. Keeping one
// compiled form is what guarantees the two back ends agree for every
// filter combination.
package filter

import "strings"

// State is an immutable snapshot of the seven selection dimensions as
// received from a dashboard client. Empty sets and ranges spanning the
// full declared bounds mean "no constraint", never "match nothing".
//
// Rating and ReleaseYears carry a two-element [low, high] pair with
// low <= high. Compile reads only the first two elements and does not
// validate ordering: a reversed pair compiles to a constraint no row
// satisfies. The HTTP layer rejects reversed ranges before they reach
// Compile; direct callers are responsible for ordering.
type State struct {
	MediaTypes   []string  `json:"media_types"`   // Subset of {movie, tv}
	Platforms    []string  `json:"platforms"`
	Rating       []float64 `json:"rating"`        // [low, high] inclusive, or empty
	ReleaseYears []int     `json:"release_years"` // [low, high] inclusive, or empty
	Genres       []string  `json:"genres"`
	Countries    []string  `json:"countries"`
	Languages    []string  `json:"languages"`
}

// Bounds declares the full range of the two numeric dimensions. A selection
// equal to the full range carries no information and compiles to no
// constraint.
type Bounds struct {
	RatingMin float64
	RatingMax float64
	YearMin   int
	YearMax   int
}

// DefaultBounds returns the declared dimension bounds used when no
// configuration override is present.
func DefaultBounds() Bounds {
	return Bounds{RatingMin: 0, RatingMax: 10, YearMin: 1902, YearMax: 2024}
}

// Predicate is the compiled, normalized conjunction of the seven dimension
// constraints. Nil pointers and empty slices mean the dimension is
// unconstrained.
//
// Genre and country constraints apply at title level: a fact row matches
// when its title carries any relation in the set, regardless of which fact
// row holds that relation. Media type, platform, rating, year, and
// language apply row-wise.
type Predicate struct {
	MediaType *string
	Platforms []string
	RatingMin *float64
	RatingMax *float64
	YearMin   *int
	YearMax   *int
	Genres    []string
	Countries []string
	Languages []string
}

// Compile normalizes a State into a Predicate against the given bounds.
//
// Sentinel rules per dimension:
//   - media type: selected set of size != 1 means no constraint; exactly
//     one selection narrows to that type (lowercased)
//   - platform, genre, country, language: empty set means no constraint
//   - rating, release year: missing, malformed, or full-range selections
//     mean no constraint
func Compile(s State, b Bounds) Predicate {
	var p Predicate

	if len(s.MediaTypes) == 1 {
		mt := strings.ToLower(s.MediaTypes[0])
		p.MediaType = &mt
	}

	p.Platforms = copySet(s.Platforms)
	p.Genres = copySet(s.Genres)
	p.Countries = copySet(s.Countries)
	p.Languages = copySet(s.Languages)

	if len(s.Rating) >= 2 && !(s.Rating[0] <= b.RatingMin && s.Rating[1] >= b.RatingMax) {
		low, high := s.Rating[0], s.Rating[1]
		p.RatingMin = &low
		p.RatingMax = &high
	}

	if len(s.ReleaseYears) >= 2 && !(s.ReleaseYears[0] <= b.YearMin && s.ReleaseYears[1] >= b.YearMax) {
		low, high := s.ReleaseYears[0], s.ReleaseYears[1]
		p.YearMin = &low
		p.YearMax = &high
	}

	return p
}

// IsUnconstrained reports whether the predicate matches every row.
func (p Predicate) IsUnconstrained() bool {
	return p.MediaType == nil &&
		len(p.Platforms) == 0 &&
		p.RatingMin == nil &&
		p.YearMin == nil &&
		len(p.Genres) == 0 &&
		len(p.Countries) == 0 &&
		len(p.Languages) == 0
}

// copySet returns a defensive copy, treating an empty input as nil so
// callers can rely on len() checks alone.
func copySet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
