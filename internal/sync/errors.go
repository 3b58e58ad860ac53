// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package sync

import (
	"errors"
	"fmt"
)

// ErrRefreshSkipped is returned by Manager.Run when the newest snapshot is
// more recent than the minimum refresh interval allows. It is a normal
// outcome for scheduled runs, not a failure.
var ErrRefreshSkipped = errors.New("refresh skipped: latest snapshot is recent enough")

// ErrRunInProgress is returned when a run is requested while another run
// holds the single-writer lock.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// TransientKind classifies a transient upstream failure.
type TransientKind string

const (
	// KindRateLimited means the upstream kept answering 429 past the
	// retry budget.
	KindRateLimited TransientKind = "rate_limited"
	// KindUnreachable means the upstream kept failing with transport
	// errors or non-2xx statuses past the retry budget.
	KindUnreachable TransientKind = "unreachable"
)

// TransientError is an upstream failure that exhausted the retry budget.
// Depending on where it occurs the pipeline either aborts the run
// (platform discovery, lookups) or records the title as missing and moves
// on (detail pulls).
type TransientError struct {
	Kind TransientKind
	URL  string
	Err  error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient upstream failure (%s) for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MergeError wraps a failure during the staging-to-fact merge. The run is
// abandoned and staging is left for the next run to clear.
type MergeError struct {
	Err error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("snapshot merge failed: %v", e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
