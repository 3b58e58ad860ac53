// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in values for every optional setting
//  2. Config file: optional YAML file (config.yaml)
//  3. Environment variables: STREAMATLAS_ prefix, double underscore nesting
//     (STREAMATLAS_WATCHMODE__API_KEY -> watchmode.api_key)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Watchmode WatchmodeConfig `koanf:"watchmode"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Database  DatabaseConfig  `koanf:"database"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WatchmodeConfig holds connection settings for the catalog listing API.
//
// Environment Variables:
//   - STREAMATLAS_WATCHMODE__API_KEY: API key (required)
//   - STREAMATLAS_WATCHMODE__BASE_URL: API base URL
//   - STREAMATLAS_WATCHMODE__SOURCE_TYPES: comma-separated source types (e.g. "sub")
//   - STREAMATLAS_WATCHMODE__REGIONS: comma-separated region codes (e.g. "US")
type WatchmodeConfig struct {
	BaseURL     string   `koanf:"base_url" validate:"required,url"`
	APIKey      string   `koanf:"api_key" validate:"required"`
	SourceTypes []string `koanf:"source_types" validate:"min=1"` // Platform kinds to track (sub, free, ...)
	Regions     []string `koanf:"regions" validate:"min=1"`      // Region codes to track
	PageLimit   int      `koanf:"page_limit" validate:"min=1,max=250"`
	RateLimit   float64  `koanf:"rate_limit" validate:"gt=0"` // Requests per second, client side
	RateBurst   int      `koanf:"rate_burst" validate:"min=1"`
}

// TMDBConfig holds connection settings for the title metadata API.
//
// Environment Variables:
//   - STREAMATLAS_TMDB__API_KEY: API key (required)
//   - STREAMATLAS_TMDB__BASE_URL: API base URL
type TMDBConfig struct {
	BaseURL   string  `koanf:"base_url" validate:"required,url"`
	APIKey    string  `koanf:"api_key" validate:"required"`
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=1"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"min=0"` // 0 = use runtime.NumCPU()
}

// IngestConfig holds ingestion pipeline settings.
//
// RetryAttempts and RetryDelay govern the retrying HTTP client shared by
// both upstream APIs: a request is attempted up to RetryAttempts times with
// a fixed RetryDelay wait between attempts before the title or platform is
// counted as missing for the run.
type IngestConfig struct {
	Interval           time.Duration `koanf:"interval" validate:"min=1m"`        // Scheduler tick
	MinRefreshDays     int           `koanf:"min_refresh_days" validate:"min=0"` // Skip runs within this many days of the latest snapshot
	RetryAttempts      int           `koanf:"retry_attempts" validate:"min=1,max=10"`
	RetryDelay         time.Duration `koanf:"retry_delay" validate:"min=100ms"`
	DetailChunkSize    int           `koanf:"detail_chunk_size" validate:"min=1"` // Titles per metadata pull chunk
	RunOnStartup       bool          `koanf:"run_on_startup"`
	RequestTimeout     time.Duration `koanf:"request_timeout" validate:"min=1s"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"min=1s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// APIConfig holds API behavior settings, including the declared bounds of
// the filter dimensions surfaced to dashboard clients. A rating or release
// year filter spanning the full declared range is treated as "no filter".
//
// AnalyticsBackend selects the evaluator behind the analytics endpoints:
// "sql" queries DuckDB per request, "memory" loads the two newest
// snapshots into an in-memory evaluator at startup and serves from that.
// The memory backend is fixed at load time and does not see snapshots
// merged after startup; both backends return identical results for any
// filter over the same data.
type APIConfig struct {
	RateLimitReqs    int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
	CORSOrigins      []string      `koanf:"cors_origins"`
	YearMin          int           `koanf:"year_min" validate:"min=1800"`
	YearMax          int           `koanf:"year_max" validate:"gtfield=YearMin"`
	RecentYearFloor  int           `koanf:"recent_year_floor" validate:"min=1800"` // Lower bound for the recent-content breakdown
	AnalyticsBackend string        `koanf:"analytics_backend" validate:"oneof=sql memory"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port string for the HTTP listener.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}
