// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"testing"
	"time"

	"github.com/tomtom215/streamatlas/internal/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestReconcileMovie(t *testing.T) {
	t.Parallel()
	ref := models.TitleRef{TitleID: 10, TMDBID: 500, TMDBType: "movie"}
	raw := &models.TMDBTitleDetail{
		ID:               500,
		Title:            strPtr("The Example"),
		ReleaseDate:      strPtr("2020-06-01"),
		Runtime:          floatPtr(118),
		OriginalLanguage: "en",
		Status:           "Released",
		VoteAverage:      floatPtr(7.5),
		VoteCount:        intPtr(1200),
		Popularity:       floatPtr(88),
		Genres:           []models.TMDBGenre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}},
		OriginCountry:    []string{"US", "GB"},
	}

	detail, genres, countries := Reconcile(ref, raw)

	if detail.Title != "The Example" {
		t.Errorf("Title = %q, want The Example", detail.Title)
	}
	if detail.ReleaseDate == nil || !detail.ReleaseDate.Equal(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReleaseDate = %v, want 2020-06-01", detail.ReleaseDate)
	}
	if detail.Runtime == nil || *detail.Runtime != 118 {
		t.Errorf("Runtime = %v, want 118", detail.Runtime)
	}
	if len(genres) != 2 || genres[0].Genre != "Action" {
		t.Errorf("genres = %+v, want Action and Drama relations", genres)
	}
	if len(countries) != 2 || countries[0].CountryCode != "US" {
		t.Errorf("countries = %+v, want US and GB relations", countries)
	}
}

func TestReconcileSeries(t *testing.T) {
	t.Parallel()
	ref := models.TitleRef{TitleID: 11, TMDBID: 42, TMDBType: "tv"}
	raw := &models.TMDBTitleDetail{
		ID:               42,
		Name:             strPtr("The Series"),
		FirstAirDate:     strPtr("2018-03-15"),
		EpisodeRunTime:   []float64{40, 50},
		NumberOfEpisodes: intPtr(10),
		OriginalLanguage: "ja",
	}

	detail, _, _ := Reconcile(ref, raw)

	if detail.Title != "The Series" {
		t.Errorf("Title = %q, want The Series (taken from name)", detail.Title)
	}
	if detail.ReleaseDate == nil || !detail.ReleaseDate.Equal(time.Date(2018, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReleaseDate = %v, want 2018-03-15 (taken from first_air_date)", detail.ReleaseDate)
	}
	// mean(40, 50) * 10 episodes = 450 estimated minutes.
	if detail.Runtime == nil || *detail.Runtime != 450 {
		t.Errorf("Runtime = %v, want 450", detail.Runtime)
	}
}

func TestReconcileRuntimeInsufficientInputs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  *models.TMDBTitleDetail
	}{
		{
			name: "no episode runtimes",
			raw:  &models.TMDBTitleDetail{NumberOfEpisodes: intPtr(10)},
		},
		{
			name: "no episode count",
			raw:  &models.TMDBTitleDetail{EpisodeRunTime: []float64{40}},
		},
		{
			name: "neither",
			raw:  &models.TMDBTitleDetail{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			detail, _, _ := Reconcile(models.TitleRef{TitleID: 1, TMDBID: 1, TMDBType: "tv"}, tt.raw)
			if detail.Runtime != nil {
				t.Errorf("Runtime = %v, want nil (absent, never zero)", *detail.Runtime)
			}
		})
	}
}

func TestReconcileInvalidReleaseDate(t *testing.T) {
	t.Parallel()
	raw := &models.TMDBTitleDetail{ReleaseDate: strPtr("not-a-date")}
	detail, _, _ := Reconcile(models.TitleRef{TitleID: 1, TMDBID: 1, TMDBType: "movie"}, raw)
	if detail.ReleaseDate != nil {
		t.Errorf("ReleaseDate = %v, want nil for malformed input", detail.ReleaseDate)
	}
}

func TestReconcileDropsEmptyRelations(t *testing.T) {
	t.Parallel()
	raw := &models.TMDBTitleDetail{
		Genres:        []models.TMDBGenre{{ID: 1, Name: ""}, {ID: 2, Name: "Drama"}},
		OriginCountry: []string{"", "JP"},
	}
	_, genres, countries := Reconcile(models.TitleRef{TitleID: 1, TMDBID: 1, TMDBType: "movie"}, raw)
	if len(genres) != 1 || genres[0].Genre != "Drama" {
		t.Errorf("genres = %+v, want only Drama", genres)
	}
	if len(countries) != 1 || countries[0].CountryCode != "JP" {
		t.Errorf("countries = %+v, want only JP", countries)
	}
}

func TestUnifiedGenreName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Action", "Action & Adventure"},
		{"Adventure", "Action & Adventure"},
		{"Science Fiction", "Sci-Fi & Fantasy"},
		{"Fantasy", "Sci-Fi & Fantasy"},
		{"War", "War & Politics"},
		{"Music", "Musical"},
		{"Kids", "Kids (tv)"},
		{"History", "History (movie)"},
		{"Thriller", "Thriller (movie)"},
		{"Drama", "Drama"}, // Unmapped names pass through
	}
	for _, tt := range tests {
		if got := UnifiedGenreName(tt.in); got != tt.want {
			t.Errorf("UnifiedGenreName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildGenreLookup(t *testing.T) {
	t.Parallel()
	movie := []models.TMDBGenre{{ID: 28, Name: "Action"}}
	tv := []models.TMDBGenre{{ID: 10402, Name: "Music"}}

	rows := BuildGenreLookup(movie, tv)

	if len(rows) != 3 {
		t.Fatalf("BuildGenreLookup() returned %d rows, want 3 (movie + tv + synthetic Musical)", len(rows))
	}
	last := rows[2]
	if last.TMDBGenreID != -1 || last.TMDBType != models.MediaTypeTV || last.TMDBName != "Musical" {
		t.Errorf("synthetic entry = %+v, want Musical tv with id -1", last)
	}
	if rows[1].UnifiedName != "Musical" {
		t.Errorf("tv Music unified name = %q, want Musical", rows[1].UnifiedName)
	}
}
