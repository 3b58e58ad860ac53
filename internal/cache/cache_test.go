// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", 42)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get() miss for freshly set key")
	}
	if got != 42 {
		t.Errorf("Get() = %v, want 42", got)
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("Get() hit for absent key")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit after TTL elapsed")
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Clear()")
	}
	if c.Stats().Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", c.Stats().Evictions)
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()
	a := GenerateKey("/api/v1/analytics/overview", "platforms=Netflix")
	b := GenerateKey("/api/v1/analytics/overview", "platforms=Netflix")
	c := GenerateKey("/api/v1/analytics/overview", "platforms=Hulu")
	if a != b {
		t.Error("identical inputs produced different keys")
	}
	if a == c {
		t.Error("different inputs produced the same key")
	}

	// The separator keeps part boundaries unambiguous.
	if GenerateKey("ab", "c") == GenerateKey("a", "bc") {
		t.Error("part boundaries not distinguished")
	}
}
