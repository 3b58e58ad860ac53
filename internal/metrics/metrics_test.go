// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	RecordAPIRequest("GET", "/api/v1/health", 200, 5*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

func TestRecordIngestRun(t *testing.T) {
	before := testutil.ToFloat64(IngestRuns.WithLabelValues("skipped"))
	RecordIngestRun("skipped", 0)
	after := testutil.ToFloat64(IngestRuns.WithLabelValues("skipped"))
	if after != before+1 {
		t.Errorf("IngestRuns[skipped] = %v, want %v", after, before+1)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("merge"))
	RecordDBQuery("merge", time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("merge"))
	if after != before+1 {
		t.Errorf("DBQueryErrors[merge] = %v, want %v", after, before+1)
	}
}
