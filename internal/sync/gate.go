// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import "time"

// RefreshDue reports whether a new ingestion run should proceed given the
// newest snapshot date. An empty fact table (nil latest) always refreshes.
// A snapshot aged exactly minDays is due, not skipped.
func RefreshDue(latest *time.Time, now time.Time, minDays int) bool {
	if latest == nil {
		return true
	}
	return now.Sub(*latest) >= time.Duration(minDays)*24*time.Hour
}
