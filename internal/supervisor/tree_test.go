// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package supervisor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/streamatlas/internal/logging"
)

// blockingService counts starts and blocks until canceled.
type blockingService struct {
	name   string
	starts atomic.Int32
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

func TestTreeServesAndStopsServices(t *testing.T) {
	t.Parallel()
	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())

	ingestSvc := &blockingService{name: "fake-scheduler"}
	apiSvc := &blockingService{name: "fake-http"}
	tree.AddIngestService(ingestSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for (ingestSvc.starts.Load() == 0 || apiSvc.starts.Load() == 0) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ingestSvc.starts.Load() == 0 {
		t.Error("ingest service never started")
	}
	if apiSvc.starts.Load() == 0 {
		t.Error("api service never started")
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancellation")
	}
}

func TestTreeConfigDefaultsApplied(t *testing.T) {
	t.Parallel()
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
}
