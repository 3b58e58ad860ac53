// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package filter

import (
	"testing"
)

func TestCompileNoConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
	}{
		{"empty state", State{}},
		{"both media types", State{MediaTypes: []string{"movie", "tv"}}},
		{"full rating range", State{Rating: []float64{0, 10}}},
		{"full year range", State{ReleaseYears: []int{1902, 2024}}},
		{"wider than declared range", State{Rating: []float64{-1, 11}}},
		{
			"all sentinels at once",
			State{
				MediaTypes:   []string{"movie", "tv"},
				Rating:       []float64{0, 10},
				ReleaseYears: []int{1902, 2024},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Compile(tt.state, DefaultBounds())
			if !p.IsUnconstrained() {
				t.Errorf("expected unconstrained predicate, got %+v", p)
			}
		})
	}
}

func TestCompileMediaType(t *testing.T) {
	t.Parallel()

	p := Compile(State{MediaTypes: []string{"Movie"}}, DefaultBounds())
	if p.MediaType == nil || *p.MediaType != "movie" {
		t.Errorf("expected lowercased movie constraint, got %v", p.MediaType)
	}

	p = Compile(State{MediaTypes: []string{"movie", "tv"}}, DefaultBounds())
	if p.MediaType != nil {
		t.Errorf("expected no media type constraint for size-2 set, got %v", *p.MediaType)
	}
}

func TestCompileRanges(t *testing.T) {
	t.Parallel()

	p := Compile(State{
		Rating:       []float64{6.5, 10},
		ReleaseYears: []int{2000, 2024},
	}, DefaultBounds())

	if p.RatingMin == nil || *p.RatingMin != 6.5 || p.RatingMax == nil || *p.RatingMax != 10 {
		t.Errorf("unexpected rating constraint: %v %v", p.RatingMin, p.RatingMax)
	}
	if p.YearMin == nil || *p.YearMin != 2000 || p.YearMax == nil || *p.YearMax != 2024 {
		t.Errorf("unexpected year constraint: %v %v", p.YearMin, p.YearMax)
	}
}

func TestCompileCustomBounds(t *testing.T) {
	t.Parallel()

	b := Bounds{RatingMin: 0, RatingMax: 10, YearMin: 1902, YearMax: 2030}

	// Full range against the overridden upper bound is still a sentinel.
	p := Compile(State{ReleaseYears: []int{1902, 2030}}, b)
	if p.YearMin != nil {
		t.Error("expected full custom year range to compile to no constraint")
	}

	// The old default upper bound now carries information.
	p = Compile(State{ReleaseYears: []int{1902, 2024}}, b)
	if p.YearMin == nil || *p.YearMax != 2024 {
		t.Error("expected partial year range to constrain")
	}
}

func TestCompileSets(t *testing.T) {
	t.Parallel()

	s := State{
		Platforms: []string{"Netflix", "Hulu"},
		Genres:    []string{"Drama"},
		Countries: []string{"United States"},
		Languages: []string{"English", "French"},
	}
	p := Compile(s, DefaultBounds())

	if len(p.Platforms) != 2 || len(p.Genres) != 1 || len(p.Countries) != 1 || len(p.Languages) != 2 {
		t.Errorf("unexpected set constraints: %+v", p)
	}

	// Compiled predicate must not alias the caller's slices.
	s.Platforms[0] = "mutated"
	if p.Platforms[0] != "Netflix" {
		t.Error("predicate aliases the input state")
	}
}
