// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/models"
)

// WatchmodeClient pulls platform and catalog listings from the Watchmode
// API through the shared breaker-protected client.
type WatchmodeClient struct {
	http    *BreakerClient
	baseURL string
	apiKey  string
	limit   int
}

// NewWatchmodeClient builds a catalog listing client.
func NewWatchmodeClient(http *BreakerClient, cfg *config.WatchmodeConfig) *WatchmodeClient {
	return &WatchmodeClient{
		http:    http,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limit:   cfg.PageLimit,
	}
}

// Sources returns every streaming source the upstream knows about. The
// caller filters by type and region.
func (c *WatchmodeClient) Sources(ctx context.Context) ([]models.WatchmodeSource, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	var sources []models.WatchmodeSource
	reqURL := fmt.Sprintf("%s/v1/sources/?%s", c.baseURL, params.Encode())
	if err := c.http.GetJSON(ctx, reqURL, &sources); err != nil {
		return nil, fmt.Errorf("failed to fetch sources: %w", err)
	}
	return sources, nil
}

// ListTitlesPage fetches one page of a platform's catalog, newest releases
// first. The response carries the server-reported page and total_pages
// used to drive pagination.
func (c *WatchmodeClient) ListTitlesPage(ctx context.Context, sourceID int, sourceType, region string, page int) (*models.WatchmodeListTitlesResponse, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("source_ids", strconv.Itoa(sourceID))
	params.Set("source_types", sourceType)
	params.Set("regions", region)
	params.Set("sort_by", "release_date_desc")
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("page", strconv.Itoa(page))

	var resp models.WatchmodeListTitlesResponse
	reqURL := fmt.Sprintf("%s/v1/list-titles/?%s", c.baseURL, params.Encode())
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch titles page %d for source %d: %w", page, sourceID, err)
	}
	return &resp, nil
}

// AllTitles walks a platform's catalog following server-reported totals:
// the next page is the response's page + 1, and the walk ends once that
// exceeds total_pages. A response whose page number fails to advance ends
// the walk instead of looping forever.
func (c *WatchmodeClient) AllTitles(ctx context.Context, sourceID int, sourceType, region string) ([]models.WatchmodeTitle, error) {
	var titles []models.WatchmodeTitle

	page := 1
	for {
		resp, err := c.ListTitlesPage(ctx, sourceID, sourceType, region, page)
		if err != nil {
			return nil, err
		}
		titles = append(titles, resp.Titles...)

		next := resp.Page + 1
		if next > resp.TotalPages {
			break
		}
		if next <= page {
			logging.Warn().
				Int("source_id", sourceID).
				Int("requested_page", page).
				Int("reported_page", resp.Page).
				Msg("Upstream page number did not advance; ending pagination")
			break
		}
		page = next
	}

	return titles, nil
}
