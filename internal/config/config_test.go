// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package config

import (
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the two keys without which Load() cannot succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STREAMATLAS_WATCHMODE__API_KEY", "wm-test-key")
	t.Setenv("STREAMATLAS_TMDB__API_KEY", "tmdb-test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Watchmode.BaseURL != "https://api.watchmode.com" {
		t.Errorf("unexpected watchmode base URL: %s", cfg.Watchmode.BaseURL)
	}
	if cfg.Watchmode.PageLimit != 250 {
		t.Errorf("expected page limit 250, got %d", cfg.Watchmode.PageLimit)
	}
	if cfg.Ingest.RetryAttempts != 5 {
		t.Errorf("expected 5 retry attempts, got %d", cfg.Ingest.RetryAttempts)
	}
	if cfg.Ingest.RetryDelay != 5*time.Second {
		t.Errorf("expected 5s retry delay, got %v", cfg.Ingest.RetryDelay)
	}
	if cfg.Ingest.MinRefreshDays != 15 {
		t.Errorf("expected 15 day refresh gate, got %d", cfg.Ingest.MinRefreshDays)
	}
	if cfg.Ingest.DetailChunkSize != 500 {
		t.Errorf("expected detail chunk size 500, got %d", cfg.Ingest.DetailChunkSize)
	}
	if cfg.API.YearMin != 1902 || cfg.API.YearMax != 2024 {
		t.Errorf("unexpected year bounds: [%d, %d]", cfg.API.YearMin, cfg.API.YearMax)
	}
	if cfg.API.RecentYearFloor != 2014 {
		t.Errorf("expected recent year floor 2014, got %d", cfg.API.RecentYearFloor)
	}
	if cfg.API.AnalyticsBackend != "sql" {
		t.Errorf("expected sql analytics backend, got %q", cfg.API.AnalyticsBackend)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STREAMATLAS_DATABASE__PATH", "/tmp/test.duckdb")
	t.Setenv("STREAMATLAS_SERVER__PORT", "9000")
	t.Setenv("STREAMATLAS_INGEST__MIN_REFRESH_DAYS", "7")
	t.Setenv("STREAMATLAS_LOGGING__LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("expected database path override, got %s", cfg.Database.Path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Ingest.MinRefreshDays != 7 {
		t.Errorf("expected 7 day refresh gate, got %d", cfg.Ingest.MinRefreshDays)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadSliceFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STREAMATLAS_WATCHMODE__SOURCE_TYPES", "sub, free")
	t.Setenv("STREAMATLAS_WATCHMODE__REGIONS", "US,GB")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Watchmode.SourceTypes) != 2 || cfg.Watchmode.SourceTypes[1] != "free" {
		t.Errorf("unexpected source types: %v", cfg.Watchmode.SourceTypes)
	}
	if len(cfg.Watchmode.Regions) != 2 || cfg.Watchmode.Regions[1] != "GB" {
		t.Errorf("unexpected regions: %v", cfg.Watchmode.Regions)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("STREAMATLAS_TMDB__API_KEY", "tmdb-test-key")
	// Watchmode key deliberately unset.

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for missing watchmode API key")
	}
	if !strings.Contains(err.Error(), "watchmode_api_key") {
		t.Errorf("expected error to name watchmode_api_key, got: %v", err)
	}
}

func TestValidateFilterBounds(t *testing.T) {
	cfg := defaultConfig()
	cfg.Watchmode.APIKey = "k"
	cfg.TMDB.APIKey = "k"
	cfg.API.RecentYearFloor = 1500

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for recent year floor outside bounds")
	}
	if !strings.Contains(err.Error(), "recent_year_floor") {
		t.Errorf("expected error to name recent_year_floor, got: %v", err)
	}
}

func TestValidateAnalyticsBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Watchmode.APIKey = "k"
	cfg.TMDB.APIKey = "k"
	cfg.API.AnalyticsBackend = "csv"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for unknown analytics backend")
	}
	if !strings.Contains(err.Error(), "api_analytics_backend") || !strings.Contains(err.Error(), "one of") {
		t.Errorf("expected error to name api_analytics_backend with allowed values, got: %v", err)
	}
}

func TestValidateYearOrder(t *testing.T) {
	cfg := defaultConfig()
	cfg.Watchmode.APIKey = "k"
	cfg.TMDB.APIKey = "k"
	cfg.API.YearMin = 2030
	cfg.API.YearMax = 2024
	cfg.API.RecentYearFloor = 2024

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when year_max <= year_min")
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8585}
	if got := s.Addr(); got != "127.0.0.1:8585" {
		t.Errorf("Addr() = %s", got)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"STREAMATLAS_WATCHMODE__API_KEY", "watchmode.api_key"},
		{"STREAMATLAS_DATABASE__PATH", "database.path"},
		{"STREAMATLAS_INGEST__MIN_REFRESH_DAYS", "ingest.min_refresh_days"},
		{"STREAMATLAS_API__CORS_ORIGINS", "api.cors_origins"},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
