// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"testing"
	"time"
)

func TestRefreshDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	tests := []struct {
		name    string
		latest  *time.Time
		minDays int
		want    bool
	}{
		{name: "empty fact table", latest: nil, minDays: 15, want: true},
		{name: "snapshot yesterday", latest: daysAgo(1), minDays: 15, want: false},
		{name: "one day short", latest: daysAgo(14), minDays: 15, want: false},
		{name: "exactly at threshold", latest: daysAgo(15), minDays: 15, want: true},
		{name: "past threshold", latest: daysAgo(30), minDays: 15, want: true},
		{name: "zero threshold always refreshes", latest: daysAgo(0), minDays: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RefreshDue(tt.latest, now, tt.minDays); got != tt.want {
				t.Errorf("RefreshDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
