// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package models

// TMDBGenre is one entry of the genre list endpoints.
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBGenreList is the response shape of /genre/{movie|tv}/list.
type TMDBGenreList struct {
	Genres []TMDBGenre `json:"genres"`
}

// TMDBCountry is one entry of the countries configuration endpoint.
type TMDBCountry struct {
	Code        string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name"`
}

// TMDBLanguage is one entry of the languages configuration endpoint.
type TMDBLanguage struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// TMDBTitleDetail is the raw detail response for a single title. The movie
// and series endpoints return different field sets; both decode into this
// one struct and the field reconciler produces a TitleDetail from it.
// Pointer and slice fields distinguish "absent" from zero values.
type TMDBTitleDetail struct {
	ID               int         `json:"id"`
	VoteAverage      *float64    `json:"vote_average"`
	VoteCount        *int        `json:"vote_count"`
	Popularity       *float64    `json:"popularity"`
	OriginalLanguage string      `json:"original_language"`
	OriginCountry    []string    `json:"origin_country"`
	Genres           []TMDBGenre `json:"genres"`
	Status           string      `json:"status"`

	// Movie fields
	Title       *string  `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	Runtime     *float64 `json:"runtime"`

	// Series fields
	Name             *string   `json:"name"`
	FirstAirDate     *string   `json:"first_air_date"`
	EpisodeRunTime   []float64 `json:"episode_run_time"`
	NumberOfEpisodes *int      `json:"number_of_episodes"`
}
