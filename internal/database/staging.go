// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/streamatlas/internal/models"
)

// ReplacePlatforms replaces the staged platform set with the given rows.
// Platform discovery runs once per ingestion run; replacing rather than
// appending keeps a re-pulled discovery from duplicating platforms.
func (db *DB) ReplacePlatforms(ctx context.Context, platforms []models.Platform) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM platforms"); err != nil {
		return fmt.Errorf("failed to clear staged platforms: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO platforms (platform_id, name, type, region) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare platform insert: %w", err)
	}
	defer closeWithLog(stmt, "platform insert statement")

	for _, p := range platforms {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Type, p.Region); err != nil {
			return fmt.Errorf("failed to insert platform %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// InsertCatalogEntries appends catalog listings to staging.
func (db *DB) InsertCatalogEntries(ctx context.Context, entries []models.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalogs
			(title_id, title, year, imdb_id, tmdb_id, tmdb_type, platform_type, platform_region, platform_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert: %w", err)
	}
	defer closeWithLog(stmt, "catalog insert statement")

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.TitleID, e.Title, e.Year, e.IMDBID, e.TMDBID, e.TMDBType,
			e.PlatformType, e.PlatformRegion, e.PlatformID); err != nil {
			return fmt.Errorf("failed to insert catalog entry %d: %w", e.TitleID, err)
		}
	}

	return tx.Commit()
}

// InsertTitleDetails appends reconciled detail records plus their genre and
// country relation rows in one transaction, so a chunk lands atomically.
func (db *DB) InsertTitleDetails(ctx context.Context, details []models.TitleDetail, genres []models.TitleGenre, countries []models.TitleCountry) error {
	if len(details) == 0 && len(genres) == 0 && len(countries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if err := insertDetailRows(ctx, tx, details); err != nil {
		return err
	}
	if err := insertGenreRows(ctx, tx, genres); err != nil {
		return err
	}
	if err := insertCountryRows(ctx, tx, countries); err != nil {
		return err
	}

	return tx.Commit()
}

func insertDetailRows(ctx context.Context, tx *sql.Tx, details []models.TitleDetail) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO title_details
			(title_id, tmdb_id, tmdb_type, title, original_language, release_date,
			 status, runtime, vote_average, vote_count, popularity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare detail insert: %w", err)
	}
	defer closeWithLog(stmt, "detail insert statement")

	for _, d := range details {
		if _, err := stmt.ExecContext(ctx,
			d.TitleID, d.TMDBID, d.TMDBType, d.Title, d.OriginalLanguage,
			d.ReleaseDate, d.Status, d.Runtime, d.VoteAverage, d.VoteCount,
			d.Popularity); err != nil {
			return fmt.Errorf("failed to insert detail for title %d: %w", d.TitleID, err)
		}
	}
	return nil
}

func insertGenreRows(ctx context.Context, tx *sql.Tx, genres []models.TitleGenre) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO title_genres (title_id, tmdb_type, genre) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare title genre insert: %w", err)
	}
	defer closeWithLog(stmt, "title genre insert statement")

	for _, g := range genres {
		if _, err := stmt.ExecContext(ctx, g.TitleID, g.TMDBType, g.Genre); err != nil {
			return fmt.Errorf("failed to insert genre relation for title %d: %w", g.TitleID, err)
		}
	}
	return nil
}

func insertCountryRows(ctx context.Context, tx *sql.Tx, countries []models.TitleCountry) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO title_countries (title_id, country_code) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare title country insert: %w", err)
	}
	defer closeWithLog(stmt, "title country insert statement")

	for _, c := range countries {
		if _, err := stmt.ExecContext(ctx, c.TitleID, c.CountryCode); err != nil {
			return fmt.Errorf("failed to insert country relation for title %d: %w", c.TitleID, err)
		}
	}
	return nil
}

// StagedPlatforms returns all currently staged platforms.
func (db *DB) StagedPlatforms(ctx context.Context) ([]models.Platform, error) {
	return queryAndScan(ctx, db.conn,
		"SELECT platform_id, name, type, region FROM platforms ORDER BY platform_id", nil,
		func(rows *sql.Rows) (models.Platform, error) {
			var p models.Platform
			err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Region)
			return p, err
		})
}

// DistinctStagedTitles returns the distinct titles referenced by staged
// catalog entries, in stable order for chunked detail pulls.
func (db *DB) DistinctStagedTitles(ctx context.Context) ([]models.TitleRef, error) {
	return queryAndScan(ctx, db.conn, `
		SELECT DISTINCT title_id, tmdb_id, tmdb_type
		FROM catalogs
		ORDER BY tmdb_id, tmdb_type`, nil,
		func(rows *sql.Rows) (models.TitleRef, error) {
			var t models.TitleRef
			err := rows.Scan(&t.TitleID, &t.TMDBID, &t.TMDBType)
			return t, err
		})
}

// StagingRowCount returns the total row count across all staging tables.
// A nonzero count at run start means a prior run aborted before cleanup.
func (db *DB) StagingRowCount(ctx context.Context) (int, error) {
	total := 0
	for _, table := range stagingTables {
		n, err := db.queryInt(ctx, "SELECT COUNT(*) FROM "+table)
		if err != nil {
			return 0, fmt.Errorf("failed to count %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}

// ClearStaging truncates all staging tables. The fact table is never
// touched here.
func (db *DB) ClearStaging(ctx context.Context) error {
	for _, table := range stagingTables {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// rollbackQuietly rolls a transaction back, ignoring the error returned
// after a successful commit.
func rollbackQuietly(tx *sql.Tx) {
	_ = tx.Rollback()
}
