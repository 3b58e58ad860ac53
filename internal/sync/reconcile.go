// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
reconcile.go - Field Reconciler and Genre Unification

The movie and series detail endpoints disagree on field names and
semantics. Reconcile maps both shapes onto one TitleDetail:

  - title          <- title (movie) or name (series)
  - release date   <- release_date (movie) or first_air_date (series)
  - runtime        <- runtime (movie); for series it is ESTIMATED as
    mean(episode_run_time) * number_of_episodes, and only when the
    episode runtime list is non-empty and the episode count is present -
    otherwise runtime is absent, never zero

Genre unification folds closely related movie/series genre names into one
display label (Action and Adventure both become "Action & Adventure");
names exclusive to one media type get a type suffix so movie History and
series History stay distinct buckets.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"time"

	"github.com/tomtom215/streamatlas/internal/models"
)

// unifiedGenreNames maps upstream genre names to the unified display
// label. Names absent from the map pass through unchanged.
var unifiedGenreNames = map[string]string{
	"Action":          "Action & Adventure",
	"Adventure":       "Action & Adventure",
	"War":             "War & Politics",
	"Fantasy":         "Sci-Fi & Fantasy",
	"Science Fiction": "Sci-Fi & Fantasy",
	"Music":           "Musical",
	"Kids":            "Kids (tv)",
	"News":            "News (tv)",
	"Reality":         "Reality (tv)",
	"Soap":            "Soap (tv)",
	"Talk":            "Talk (tv)",
	"History":         "History (movie)",
	"Romance":         "Romance (movie)",
	"Thriller":        "Thriller (movie)",
}

// UnifiedGenreName returns the display label for an upstream genre name.
func UnifiedGenreName(tmdbName string) string {
	if unified, ok := unifiedGenreNames[tmdbName]; ok {
		return unified
	}
	return tmdbName
}

// BuildGenreLookup converts the two upstream genre lists into lookup rows,
// plus a synthetic series "Musical" entry: the series list has no Musical
// genre, but unification maps series Music onto it, so the lookup needs a
// row for the join to resolve.
func BuildGenreLookup(movieGenres, tvGenres []models.TMDBGenre) []models.Genre {
	rows := make([]models.Genre, 0, len(movieGenres)+len(tvGenres)+1)
	for _, g := range movieGenres {
		rows = append(rows, models.Genre{
			TMDBGenreID: g.ID, TMDBType: models.MediaTypeMovie,
			TMDBName: g.Name, UnifiedName: UnifiedGenreName(g.Name),
		})
	}
	for _, g := range tvGenres {
		rows = append(rows, models.Genre{
			TMDBGenreID: g.ID, TMDBType: models.MediaTypeTV,
			TMDBName: g.Name, UnifiedName: UnifiedGenreName(g.Name),
		})
	}
	rows = append(rows, models.Genre{
		TMDBGenreID: -1, TMDBType: models.MediaTypeTV,
		TMDBName: "Musical", UnifiedName: "Musical",
	})
	return rows
}

// BuildCountryLookup converts the country configuration list.
func BuildCountryLookup(countries []models.TMDBCountry) []models.Country {
	rows := make([]models.Country, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, models.Country{Code: c.Code, EnglishName: c.EnglishName, NativeName: c.NativeName})
	}
	return rows
}

// BuildLanguageLookup converts the language configuration list.
func BuildLanguageLookup(languages []models.TMDBLanguage) []models.Language {
	rows := make([]models.Language, 0, len(languages))
	for _, l := range languages {
		rows = append(rows, models.Language{Code: l.Code, EnglishName: l.EnglishName, Name: l.Name})
	}
	return rows
}

// Reconcile normalizes one raw detail response into a TitleDetail plus its
// genre and country relation rows. Relation rows drop empty names; a title
// legitimately produces zero, one, or many of each.
func Reconcile(ref models.TitleRef, raw *models.TMDBTitleDetail) (models.TitleDetail, []models.TitleGenre, []models.TitleCountry) {
	detail := models.TitleDetail{
		TitleID:          ref.TitleID,
		TMDBID:           ref.TMDBID,
		TMDBType:         ref.TMDBType,
		OriginalLanguage: raw.OriginalLanguage,
		Status:           raw.Status,
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		Popularity:       raw.Popularity,
	}

	switch {
	case raw.Title != nil:
		detail.Title = *raw.Title
	case raw.Name != nil:
		detail.Title = *raw.Name
	}

	detail.ReleaseDate = parseReleaseDate(raw.ReleaseDate)
	if detail.ReleaseDate == nil {
		detail.ReleaseDate = parseReleaseDate(raw.FirstAirDate)
	}

	detail.Runtime = reconcileRuntime(raw)

	genres := make([]models.TitleGenre, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		if g.Name == "" {
			continue
		}
		genres = append(genres, models.TitleGenre{TitleID: ref.TitleID, TMDBType: ref.TMDBType, Genre: g.Name})
	}

	countries := make([]models.TitleCountry, 0, len(raw.OriginCountry))
	for _, code := range raw.OriginCountry {
		if code == "" {
			continue
		}
		countries = append(countries, models.TitleCountry{TitleID: ref.TitleID, CountryCode: code})
	}

	return detail, genres, countries
}

// reconcileRuntime returns the movie runtime as-is, or the series estimate
// when both inputs are present. Insufficient inputs yield nil, never zero.
func reconcileRuntime(raw *models.TMDBTitleDetail) *float64 {
	if raw.Runtime != nil {
		return raw.Runtime
	}
	if len(raw.EpisodeRunTime) == 0 || raw.NumberOfEpisodes == nil {
		return nil
	}
	var sum float64
	for _, minutes := range raw.EpisodeRunTime {
		sum += minutes
	}
	estimate := sum / float64(len(raw.EpisodeRunTime)) * float64(*raw.NumberOfEpisodes)
	return &estimate
}

func parseReleaseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &parsed
}
