// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	t.Parallel()
	var seen string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("GetRequestID() = empty, want generated ID in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID header = %q, want %q (context value)", got, seen)
	}
}

func TestRequestIDHonorsUpstreamHeader(t *testing.T) {
	t.Parallel()
	var seen string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "proxy-assigned-id")
	handler(httptest.NewRecorder(), req)

	if seen != "proxy-assigned-id" {
		t.Errorf("GetRequestID() = %q, want proxy-assigned-id", seen)
	}
}

func TestGetRequestIDMissingContext(t *testing.T) {
	t.Parallel()
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on bare context = %q, want empty", got)
	}
}
