// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// appendSnapshotQuery denormalizes the staged relational tables into fact
// rows tagged with the current date. Every join after catalogs is an outer
// join: a catalog entry with missing details, genres, or countries still
// produces at least one row, with NULL in the unresolved dimensions. A
// title with G genre relations and C country relations fans out into
// G x C rows (floored at 1 each).
const appendSnapshotQuery = `
	INSERT INTO analytics
	SELECT
		CURRENT_DATE,
		p.name,
		ca.tmdb_type,
		ca.tmdb_id,
		ca.title_id,
		EXTRACT(YEAR FROM d.release_date),
		d.vote_count,
		d.vote_average,
		d.popularity,
		g.unified_name,
		co.english_name,
		l.english_name
	FROM catalogs ca
	LEFT JOIN platforms p ON ca.platform_id = p.platform_id
	LEFT JOIN title_details d ON ca.title_id = d.title_id
	LEFT JOIN title_genres tg ON ca.title_id = tg.title_id
	LEFT JOIN genres g ON tg.genre = g.tmdb_name AND tg.tmdb_type = g.tmdb_type
	LEFT JOIN title_countries tc ON d.title_id = tc.title_id
	LEFT JOIN countries co ON tc.country_code = co.country_code
	LEFT JOIN languages l ON d.original_language = l.language_code`

// AppendSnapshot merges the staged tables into the fact table as one new
// dated snapshot. The insert runs in a transaction so a failed merge never
// leaves a partial snapshot behind. Returns the number of fact rows written.
func (db *DB) AppendSnapshot(ctx context.Context) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	res, err := tx.ExecContext(ctx, appendSnapshotQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to append snapshot: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		rows = -1
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return rows, nil
}

// LatestSnapshotDate returns the date of the newest snapshot, or nil when
// the fact table is empty. The refresh gate compares this against the
// minimum refresh interval.
func (db *DB) LatestSnapshotDate(ctx context.Context) (*time.Time, error) {
	var latest sql.NullTime
	err := db.conn.QueryRowContext(ctx, "SELECT MAX(date) FROM analytics").Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// SnapshotDates returns all distinct snapshot dates, newest first.
func (db *DB) SnapshotDates(ctx context.Context) ([]time.Time, error) {
	return queryAndScan(ctx, db.conn,
		"SELECT DISTINCT date FROM analytics ORDER BY date DESC", nil,
		func(rows *sql.Rows) (time.Time, error) {
			var d time.Time
			err := rows.Scan(&d)
			return d, err
		})
}
