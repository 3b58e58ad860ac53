// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/models"
)

// TMDBClient pulls title metadata and reference lookups from the TMDB API
// through the shared breaker-protected client.
type TMDBClient struct {
	http    *BreakerClient
	baseURL string
	apiKey  string
}

// NewTMDBClient builds a metadata client.
func NewTMDBClient(http *BreakerClient, cfg *config.TMDBConfig) *TMDBClient {
	return &TMDBClient{
		http:    http,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

func (c *TMDBClient) endpoint(path string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	return fmt.Sprintf("%s/3%s?%s", c.baseURL, path, params.Encode())
}

// MovieGenres returns the movie genre list.
func (c *TMDBClient) MovieGenres(ctx context.Context) ([]models.TMDBGenre, error) {
	var list models.TMDBGenreList
	if err := c.http.GetJSON(ctx, c.endpoint("/genre/movie/list"), &list); err != nil {
		return nil, fmt.Errorf("failed to fetch movie genres: %w", err)
	}
	return list.Genres, nil
}

// TVGenres returns the series genre list.
func (c *TMDBClient) TVGenres(ctx context.Context) ([]models.TMDBGenre, error) {
	var list models.TMDBGenreList
	if err := c.http.GetJSON(ctx, c.endpoint("/genre/tv/list"), &list); err != nil {
		return nil, fmt.Errorf("failed to fetch tv genres: %w", err)
	}
	return list.Genres, nil
}

// Countries returns the country configuration list.
func (c *TMDBClient) Countries(ctx context.Context) ([]models.TMDBCountry, error) {
	var countries []models.TMDBCountry
	if err := c.http.GetJSON(ctx, c.endpoint("/configuration/countries"), &countries); err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}
	return countries, nil
}

// Languages returns the language configuration list.
func (c *TMDBClient) Languages(ctx context.Context) ([]models.TMDBLanguage, error) {
	var languages []models.TMDBLanguage
	if err := c.http.GetJSON(ctx, c.endpoint("/configuration/languages"), &languages); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}
	return languages, nil
}

// TitleDetail fetches the raw detail record for one title. The movie and
// tv endpoints return different shapes; both decode into TMDBTitleDetail
// for the field reconciler to normalize.
func (c *TMDBClient) TitleDetail(ctx context.Context, ref models.TitleRef) (*models.TMDBTitleDetail, error) {
	var detail models.TMDBTitleDetail
	path := fmt.Sprintf("/%s/%d", ref.TMDBType, ref.TMDBID)
	if err := c.http.GetJSON(ctx, c.endpoint(path), &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch %s detail %d: %w", ref.TMDBType, ref.TMDBID, err)
	}
	return &detail, nil
}
