// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/streamatlas/internal/config"
)

func newTestBreakerClient(name string) *BreakerClient {
	cfg := &config.IngestConfig{BreakerMaxFailures: 100, BreakerTimeout: time.Minute}
	return NewBreakerClient(name, newFastClient(2), cfg)
}

func newTestWatchmodeClient(baseURL string) *WatchmodeClient {
	return NewWatchmodeClient(newTestBreakerClient("watchmode-test"), &config.WatchmodeConfig{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		PageLimit: 250,
	})
}

func TestAllTitlesPagination(t *testing.T) {
	t.Parallel()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/v1/list-titles/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sort_by") != "release_date_desc" {
			t.Errorf("sort_by = %q, want release_date_desc", q.Get("sort_by"))
		}
		if q.Get("limit") != "250" {
			t.Errorf("limit = %q, want 250", q.Get("limit"))
		}

		page, _ := strconv.Atoi(q.Get("page"))
		fmt.Fprintf(w, `{
			"titles": [{"id": %d, "title": "Title %d", "tmdb_id": %d, "tmdb_type": "movie"}],
			"page": %d,
			"total_pages": 3,
			"total_results": 3
		}`, page, page, page*100, page)
	}))
	defer srv.Close()

	titles, err := newTestWatchmodeClient(srv.URL).AllTitles(context.Background(), 203, "sub", "US")
	if err != nil {
		t.Fatalf("AllTitles() error = %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("AllTitles() returned %d titles, want 3 (one per page)", len(titles))
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
	if titles[2].TMDBID != 300 {
		t.Errorf("titles[2].TMDBID = %d, want 300 (page 3)", titles[2].TMDBID)
	}
}

func TestAllTitlesSinglePage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"titles": [{"id": 1}], "page": 1, "total_pages": 1, "total_results": 1}`)
	}))
	defer srv.Close()

	titles, err := newTestWatchmodeClient(srv.URL).AllTitles(context.Background(), 203, "sub", "US")
	if err != nil {
		t.Fatalf("AllTitles() error = %v", err)
	}
	if len(titles) != 1 {
		t.Errorf("AllTitles() returned %d titles, want 1", len(titles))
	}
}

func TestAllTitlesEmptyCatalog(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"titles": [], "page": 1, "total_pages": 0, "total_results": 0}`)
	}))
	defer srv.Close()

	titles, err := newTestWatchmodeClient(srv.URL).AllTitles(context.Background(), 203, "sub", "US")
	if err != nil {
		t.Fatalf("AllTitles() error = %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("AllTitles() returned %d titles, want 0", len(titles))
	}
}

func TestAllTitlesNonAdvancingPageGuard(t *testing.T) {
	t.Parallel()
	var requests atomic.Int32
	// A broken upstream that reports page 1 forever despite claiming 5
	// pages must not loop indefinitely.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"titles": [{"id": 1}], "page": 1, "total_pages": 5, "total_results": 5}`)
	}))
	defer srv.Close()

	titles, err := newTestWatchmodeClient(srv.URL).AllTitles(context.Background(), 203, "sub", "US")
	if err != nil {
		t.Fatalf("AllTitles() error = %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2 (initial page plus one stalled follow-up)", got)
	}
	if len(titles) != 2 {
		t.Errorf("AllTitles() returned %d titles, want 2", len(titles))
	}
}

func TestSources(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sources/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("apiKey = %q, want test-key", r.URL.Query().Get("apiKey"))
		}
		fmt.Fprint(w, `[
			{"id": 203, "name": "Netflix", "type": "sub", "regions": ["US", "GB"]},
			{"id": 157, "name": "Hulu", "type": "sub", "regions": ["US"]}
		]`)
	}))
	defer srv.Close()

	sources, err := newTestWatchmodeClient(srv.URL).Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("Sources() returned %d sources, want 2", len(sources))
	}
	if sources[0].Name != "Netflix" || len(sources[0].Regions) != 2 {
		t.Errorf("Sources()[0] = %+v, want Netflix with 2 regions", sources[0])
	}
}
