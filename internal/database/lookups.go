// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/streamatlas/internal/models"
)

// LookupCount returns the row count of a lookup table. Seeding is skipped
// when a lookup is already populated.
func (db *DB) LookupCount(ctx context.Context, table string) (int, error) {
	switch table {
	case "genres", "countries", "languages":
	default:
		return 0, fmt.Errorf("not a lookup table: %s", table)
	}
	return db.queryInt(ctx, "SELECT COUNT(*) FROM "+table)
}

// InsertGenres seeds the genre lookup.
func (db *DB) InsertGenres(ctx context.Context, genres []models.Genre) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO genres (tmdb_genre_id, tmdb_type, tmdb_name, unified_name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer closeWithLog(stmt, "genre insert statement")

	for _, g := range genres {
		if _, err := stmt.ExecContext(ctx, g.TMDBGenreID, g.TMDBType, g.TMDBName, g.UnifiedName); err != nil {
			return fmt.Errorf("failed to insert genre %q: %w", g.TMDBName, err)
		}
	}

	return tx.Commit()
}

// InsertCountries seeds the country lookup.
func (db *DB) InsertCountries(ctx context.Context, countries []models.Country) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO countries (country_code, english_name, native_name) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare country insert: %w", err)
	}
	defer closeWithLog(stmt, "country insert statement")

	for _, c := range countries {
		if _, err := stmt.ExecContext(ctx, c.Code, c.EnglishName, c.NativeName); err != nil {
			return fmt.Errorf("failed to insert country %q: %w", c.Code, err)
		}
	}

	return tx.Commit()
}

// InsertLanguages seeds the language lookup.
func (db *DB) InsertLanguages(ctx context.Context, languages []models.Language) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO languages (language_code, english_name, name) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare language insert: %w", err)
	}
	defer closeWithLog(stmt, "language insert statement")

	for _, l := range languages {
		if _, err := stmt.ExecContext(ctx, l.Code, l.EnglishName, l.Name); err != nil {
			return fmt.Errorf("failed to insert language %q: %w", l.Code, err)
		}
	}

	return tx.Commit()
}
