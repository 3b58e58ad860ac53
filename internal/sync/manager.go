// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
manager.go - Ingestion Orchestrator

Run order, matching the staging schema's dependency chain:

 1. Refresh gate: skip when the newest snapshot is younger than the
    minimum refresh interval
 2. Clear stale staging unconditionally (an aborted prior run leaves rows
    behind; seeding guards alone would let catalogs accumulate duplicates)
 3. Seed lookup tables, each only when empty
 4. Discover platforms matching the configured source types and regions
 5. Pull each platform's full catalog; a platform whose pull fails or
    returns nothing is skipped for this run, not fatal
 6. Pull and reconcile title metadata in chunks over the distinct staged
    titles; a title whose pull exhausts retries is recorded as missing
 7. Merge staging into a new dated snapshot
 8. Clear staging

Single-writer discipline: TryLock rejects overlapping runs instead of
queueing them, so a slow run and an impatient trigger cannot interleave
staging writes. Analytics reads continue against the prior snapshot
throughout.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/streamatlas/internal/config"
	"github.com/tomtom215/streamatlas/internal/database"
	"github.com/tomtom215/streamatlas/internal/logging"
	"github.com/tomtom215/streamatlas/internal/metrics"
	"github.com/tomtom215/streamatlas/internal/models"
)

// Manager orchestrates ingestion runs against one database. Safe for
// concurrent use; overlapping runs are rejected, not queued.
type Manager struct {
	cfg       *config.Config
	db        *database.DB
	watchmode *WatchmodeClient
	tmdb      *TMDBClient
	now       func() time.Time

	runMu stdsync.Mutex // Held for the duration of a run

	statusMu stdsync.RWMutex
	status   models.IngestStatus
}

// NewManager wires the upstream clients and returns a ready Manager.
func NewManager(cfg *config.Config, db *database.DB) *Manager {
	watchmodeHTTP := NewBreakerClient("watchmode-api",
		NewClient(cfg.Ingest.RequestTimeout, cfg.Ingest.RetryAttempts, cfg.Ingest.RetryDelay,
			cfg.Watchmode.RateLimit, cfg.Watchmode.RateBurst),
		&cfg.Ingest)
	tmdbHTTP := NewBreakerClient("tmdb-api",
		NewClient(cfg.Ingest.RequestTimeout, cfg.Ingest.RetryAttempts, cfg.Ingest.RetryDelay,
			cfg.TMDB.RateLimit, cfg.TMDB.RateBurst),
		&cfg.Ingest)

	return &Manager{
		cfg:       cfg,
		db:        db,
		watchmode: NewWatchmodeClient(watchmodeHTTP, &cfg.Watchmode),
		tmdb:      NewTMDBClient(tmdbHTTP, &cfg.TMDB),
		now:       time.Now,
	}
}

// Status returns a copy of the current pipeline status.
func (m *Manager) Status() models.IngestStatus {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

func (m *Manager) setRunning(runID string) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.status.Running = true
	m.status.LastRunID = runID
	m.status.LastError = ""
}

func (m *Manager) setFinished(latest *time.Time, runErr error) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.status.Running = false
	m.status.LastSnapshotDate = latest
	if runErr != nil {
		m.status.LastError = runErr.Error()
	}
}

// Run executes one ingestion run end to end. Returns ErrRunInProgress
// when another run holds the writer lock and ErrRefreshSkipped when the
// newest snapshot is still fresh; both are expected outcomes for callers
// that trigger on a schedule.
func (m *Manager) Run(ctx context.Context) error {
	if !m.runMu.TryLock() {
		return ErrRunInProgress
	}
	defer m.runMu.Unlock()

	runID := uuid.NewString()
	start := m.now()
	log := logging.With().Str("run_id", runID).Logger()

	metrics.IngestRunning.Set(1)
	defer metrics.IngestRunning.Set(0)

	m.setRunning(runID)
	err := m.run(ctx, runID)

	latest, dateErr := m.db.LatestSnapshotDate(ctx)
	if dateErr != nil {
		log.Warn().Err(dateErr).Msg("Failed to read latest snapshot date after run")
	}
	m.setFinished(latest, err)

	switch {
	case err == nil:
		metrics.RecordIngestRun("success", m.now().Sub(start))
		log.Info().Dur("duration", m.now().Sub(start)).Msg("Ingestion run completed")
	case errors.Is(err, ErrRefreshSkipped):
		metrics.RecordIngestRun("skipped", 0)
		log.Info().Msg("Ingestion run skipped: latest snapshot is recent enough")
	default:
		metrics.RecordIngestRun("failure", m.now().Sub(start))
		log.Error().Err(err).Msg("Ingestion run failed")
	}
	return err
}

func (m *Manager) run(ctx context.Context, runID string) error {
	log := logging.With().Str("run_id", runID).Logger()

	// Refresh gate.
	latest, err := m.db.LatestSnapshotDate(ctx)
	if err != nil {
		return fmt.Errorf("failed to read latest snapshot date: %w", err)
	}
	if !RefreshDue(latest, m.now(), m.cfg.Ingest.MinRefreshDays) {
		return ErrRefreshSkipped
	}

	// Staging is cleared at run start, not just run end: an aborted prior
	// run leaves partial rows that would otherwise merge into the next
	// snapshot twice.
	staleRows, err := m.db.StagingRowCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect staging: %w", err)
	}
	if staleRows > 0 {
		log.Warn().Int("rows", staleRows).Msg("Clearing stale staging rows from an aborted prior run")
	}
	if err := m.db.ClearStaging(ctx); err != nil {
		return fmt.Errorf("failed to clear staging: %w", err)
	}

	if err := m.seedLookups(ctx); err != nil {
		return err
	}

	platforms, err := m.discoverPlatforms(ctx)
	if err != nil {
		return err
	}
	if err := m.db.ReplacePlatforms(ctx, platforms); err != nil {
		return fmt.Errorf("failed to stage platforms: %w", err)
	}
	log.Info().Int("platforms", len(platforms)).Msg("Platforms staged")

	if err := m.stageCatalogs(ctx, platforms); err != nil {
		return err
	}

	staged, err := m.stageDetails(ctx)
	if err != nil {
		return err
	}
	metrics.IngestTitlesStaged.Set(float64(staged))

	rows, err := m.db.AppendSnapshot(ctx)
	if err != nil {
		return &MergeError{Err: err}
	}
	metrics.IngestSnapshotRows.Set(float64(rows))
	log.Info().Int64("fact_rows", rows).Msg("Snapshot merged")

	if err := m.db.ClearStaging(ctx); err != nil {
		return fmt.Errorf("failed to clear staging after merge: %w", err)
	}
	return nil
}

// seedLookups populates each lookup table that is still empty. Lookups
// are static reference data; re-seeding a populated table would duplicate
// rows, so each table gets an emptiness guard.
func (m *Manager) seedLookups(ctx context.Context) error {
	genreCount, err := m.db.LookupCount(ctx, "genres")
	if err != nil {
		return fmt.Errorf("failed to count genres: %w", err)
	}
	if genreCount == 0 {
		movieGenres, err := m.tmdb.MovieGenres(ctx)
		if err != nil {
			return err
		}
		tvGenres, err := m.tmdb.TVGenres(ctx)
		if err != nil {
			return err
		}
		if err := m.db.InsertGenres(ctx, BuildGenreLookup(movieGenres, tvGenres)); err != nil {
			return fmt.Errorf("failed to seed genres: %w", err)
		}
	}

	countryCount, err := m.db.LookupCount(ctx, "countries")
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if countryCount == 0 {
		countries, err := m.tmdb.Countries(ctx)
		if err != nil {
			return err
		}
		if err := m.db.InsertCountries(ctx, BuildCountryLookup(countries)); err != nil {
			return fmt.Errorf("failed to seed countries: %w", err)
		}
	}

	languageCount, err := m.db.LookupCount(ctx, "languages")
	if err != nil {
		return fmt.Errorf("failed to count languages: %w", err)
	}
	if languageCount == 0 {
		languages, err := m.tmdb.Languages(ctx)
		if err != nil {
			return err
		}
		if err := m.db.InsertLanguages(ctx, BuildLanguageLookup(languages)); err != nil {
			return fmt.Errorf("failed to seed languages: %w", err)
		}
	}
	return nil
}

// discoverPlatforms filters the upstream source list down to the
// configured source types and regions, one platform row per source. A
// source available in several configured regions is tracked under the
// first matching region.
func (m *Manager) discoverPlatforms(ctx context.Context) ([]models.Platform, error) {
	sources, err := m.watchmode.Sources(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var platforms []models.Platform
	for _, region := range m.cfg.Watchmode.Regions {
		for _, src := range sources {
			if _, ok := seen[src.ID]; ok {
				continue
			}
			if !containsString(m.cfg.Watchmode.SourceTypes, src.Type) {
				continue
			}
			if !containsString(src.Regions, region) {
				continue
			}
			seen[src.ID] = struct{}{}
			platforms = append(platforms, models.Platform{
				ID: src.ID, Name: src.Name, Type: src.Type, Region: region,
			})
		}
	}
	return platforms, nil
}

// stageCatalogs pulls and stages every platform's catalog. A platform
// whose pull fails or returns no titles is skipped for this run; the
// remaining platforms still produce a snapshot.
func (m *Manager) stageCatalogs(ctx context.Context, platforms []models.Platform) error {
	for _, platform := range platforms {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		titles, err := m.watchmode.AllTitles(ctx, platform.ID, platform.Type, platform.Region)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Warn().Err(err).Str("platform", platform.Name).Msg("Skipping platform: catalog pull failed")
			continue
		}
		if len(titles) == 0 {
			logging.Warn().Str("platform", platform.Name).Msg("Skipping platform: catalog is empty")
			continue
		}

		entries := make([]models.CatalogEntry, 0, len(titles))
		for _, t := range titles {
			entries = append(entries, models.CatalogEntry{
				TitleID:        t.ID,
				Title:          t.Title,
				Year:           t.Year,
				IMDBID:         t.IMDBID,
				TMDBID:         t.TMDBID,
				TMDBType:       t.TMDBType,
				PlatformID:     platform.ID,
				PlatformType:   platform.Type,
				PlatformRegion: platform.Region,
			})
		}
		if err := m.db.InsertCatalogEntries(ctx, entries); err != nil {
			return fmt.Errorf("failed to stage catalog for %s: %w", platform.Name, err)
		}
		logging.Info().Str("platform", platform.Name).Int("titles", len(titles)).Msg("Catalog staged")
	}
	return nil
}

// stageDetails pulls metadata for every distinct staged title in chunks,
// reconciling each response into detail plus relation rows. A title whose
// pull fails is recorded as missing and the run continues; its catalog
// rows still reach the snapshot with NULL detail dimensions.
func (m *Manager) stageDetails(ctx context.Context) (int, error) {
	refs, err := m.db.DistinctStagedTitles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list staged titles: %w", err)
	}

	chunkSize := m.cfg.Ingest.DetailChunkSize
	for begin := 0; begin < len(refs); begin += chunkSize {
		end := begin + chunkSize
		if end > len(refs) {
			end = len(refs)
		}

		var (
			details   []models.TitleDetail
			genres    []models.TitleGenre
			countries []models.TitleCountry
		)
		for _, ref := range refs[begin:end] {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			raw, err := m.tmdb.TitleDetail(ctx, ref)
			if err != nil {
				if ctx.Err() != nil {
					return 0, ctx.Err()
				}
				metrics.IngestTitlesMissing.Inc()
				logging.Debug().Err(err).Int("tmdb_id", ref.TMDBID).Str("tmdb_type", ref.TMDBType).
					Msg("Title metadata missing for this run")
				continue
			}
			detail, titleGenres, titleCountries := Reconcile(ref, raw)
			details = append(details, detail)
			genres = append(genres, titleGenres...)
			countries = append(countries, titleCountries...)
		}

		if err := m.db.InsertTitleDetails(ctx, details, genres, countries); err != nil {
			return 0, fmt.Errorf("failed to stage title details: %w", err)
		}
	}
	return len(refs), nil
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
