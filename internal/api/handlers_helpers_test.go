// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tomtom215/streamatlas/internal/filter"
)

func TestParseFilterState(t *testing.T) {
	t.Parallel()
	bounds := filter.DefaultBounds()

	tests := []struct {
		name    string
		query   string
		want    filter.State
		wantErr bool
	}{
		{
			name:  "empty query is unconstrained",
			query: "",
			want:  filter.State{},
		},
		{
			name:  "set dimensions split on commas",
			query: "platforms=Netflix,Hulu&genres=Drama&media_types=movie",
			want: filter.State{
				MediaTypes: []string{"movie"},
				Platforms:  []string{"Netflix", "Hulu"},
				Genres:     []string{"Drama"},
			},
		},
		{
			name:  "whitespace and empty items dropped",
			query: "platforms=Netflix,%20Hulu,,",
			want:  filter.State{Platforms: []string{"Netflix", "Hulu"}},
		},
		{
			name:  "rating min defaults the max to the bound",
			query: "rating_min=6.5",
			want:  filter.State{Rating: []float64{6.5, 10}},
		},
		{
			name:  "year range",
			query: "year_min=2000&year_max=2010",
			want:  filter.State{ReleaseYears: []int{2000, 2010}},
		},
		{
			name:    "malformed rating",
			query:   "rating_min=high",
			wantErr: true,
		},
		{
			name:    "inverted rating range",
			query:   "rating_min=8&rating_max=4",
			wantErr: true,
		},
		{
			name:    "malformed year",
			query:   "year_max=soon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			got, err := parseFilterState(r, bounds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFilterState() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFilterState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFilterStateFullRangeCompilesUnconstrained(t *testing.T) {
	t.Parallel()
	bounds := filter.DefaultBounds()
	r := httptest.NewRequest("GET", "/?rating_min=0&rating_max=10&year_min=1902&year_max=2024", nil)

	state, err := parseFilterState(r, bounds)
	if err != nil {
		t.Fatalf("parseFilterState() error = %v", err)
	}
	if pred := filter.Compile(state, bounds); !pred.IsUnconstrained() {
		t.Errorf("full-range selection compiled to %+v, want unconstrained", pred)
	}
}

func TestGenerateETagStable(t *testing.T) {
	t.Parallel()
	a := generateETag([]byte(`{"status":"success"}`))
	b := generateETag([]byte(`{"status":"success"}`))
	c := generateETag([]byte(`{"status":"error"}`))
	if a != b {
		t.Error("identical payloads produced different ETags")
	}
	if a == c {
		t.Error("different payloads produced the same ETag")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()
	got := sanitizeLogValue("line1\nline2\tend")
	if got != `line1\x0aline2\x09end` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
