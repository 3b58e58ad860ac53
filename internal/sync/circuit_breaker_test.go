// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamatlas/internal/config"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := &config.IngestConfig{BreakerMaxFailures: 2, BreakerTimeout: time.Minute}
	bc := NewBreakerClient("breaker-open-test", newFastClient(1), cfg)
	ctx := context.Background()

	var result map[string]interface{}
	for i := 0; i < 2; i++ {
		if err := bc.GetJSON(ctx, srv.URL, &result); err == nil {
			t.Fatal("GetJSON() expected failure")
		}
	}

	before := calls.Load()
	err := bc.GetJSON(ctx, srv.URL, &result)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("GetJSON() with open breaker error = %v, want gobreaker.ErrOpenState", err)
	}
	if calls.Load() != before {
		t.Errorf("open breaker still reached the network (%d extra calls)", calls.Load()-before)
	}
}

func TestBreakerPassesSuccessThrough(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	cfg := &config.IngestConfig{BreakerMaxFailures: 2, BreakerTimeout: time.Minute}
	bc := NewBreakerClient("breaker-success-test", newFastClient(1), cfg)

	var result struct {
		OK bool `json:"ok"`
	}
	if err := bc.GetJSON(context.Background(), srv.URL, &result); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if !result.OK {
		t.Error("result.OK = false, want true")
	}
}
