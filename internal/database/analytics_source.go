// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
analytics_source.go - SQL Analytics Back End

Implements the analytics source contract on top of the DuckDB fact table.
All metrics except ChangeSets are scoped to the newest snapshot date via a
correlated MAX(date) subquery, so a long-lived dashboard always reads the
latest merge without re-resolving dates in Go.

Two rules keep this back end interchangeable with the in-memory one:
  - Every "title count" deduplicates on title_id. The fact table fans a
    title out into one row per (genre, country) combination, so raw row
    counts overcount.
  - Grouped metrics exclude rows whose grouping dimension is NULL. A title
    with no resolved genre contributes to totals but never to a genre
    bucket.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/streamatlas/internal/filter"
	"github.com/tomtom215/streamatlas/internal/models"
)

const latestDate = "date = (SELECT MAX(date) FROM analytics)"

// PlatformCount returns the number of distinct platforms in the latest
// snapshot matching the predicate.
func (db *DB) PlatformCount(ctx context.Context, p filter.Predicate) (int, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(
		"SELECT COUNT(DISTINCT platform) FROM analytics WHERE %s AND %s",
		latestDate, where)
	return db.queryInt(ctx, query, args...)
}

// DistinctTitleCount returns the number of distinct titles in the latest
// snapshot matching the predicate. An empty mediaType counts all titles;
// "movie" or "tv" restricts the count to that type.
func (db *DB) DistinctTitleCount(ctx context.Context, p filter.Predicate, mediaType string) (int, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(
		"SELECT COUNT(DISTINCT title_id) FROM analytics WHERE %s AND %s",
		latestDate, where)
	if mediaType != "" {
		query += " AND media_type = ?"
		args = append(args, mediaType)
	}
	return db.queryInt(ctx, query, args...)
}

// Overview returns per-platform averages and title counts. The inner
// DISTINCT collapses genre/country fan-out so each title weighs once per
// platform; AVG skips titles with no rating or popularity.
func (db *DB) Overview(ctx context.Context, p filter.Predicate) ([]models.OverviewRow, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform,
		       COALESCE(AVG(vote_average), 0),
		       COALESCE(AVG(popularity), 0),
		       COUNT(DISTINCT title_id)
		FROM (
			SELECT DISTINCT platform, title_id, vote_average, popularity
			FROM analytics
			WHERE %s AND %s AND platform IS NOT NULL
		)
		GROUP BY platform
		ORDER BY platform`, latestDate, where)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.OverviewRow, error) {
			var r models.OverviewRow
			err := rows.Scan(&r.Platform, &r.AverageRating, &r.AveragePopularity, &r.TitleCount)
			return r, err
		})
}

// TitleCounts returns per-platform distinct title counts split by media
// type.
func (db *DB) TitleCounts(ctx context.Context, p filter.Predicate) ([]models.TitleCountRow, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform,
		       COUNT(DISTINCT CASE WHEN media_type = 'movie' THEN title_id END),
		       COUNT(DISTINCT CASE WHEN media_type = 'tv' THEN title_id END),
		       COUNT(DISTINCT title_id)
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL
		GROUP BY platform
		ORDER BY platform`, latestDate, where)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.TitleCountRow, error) {
			var r models.TitleCountRow
			err := rows.Scan(&r.Platform, &r.Movies, &r.TV, &r.Total)
			return r, err
		})
}

// Quality returns one deduplicated (platform, title, rating) observation
// per rated title. Unrated titles are excluded.
func (db *DB) Quality(ctx context.Context, p filter.Predicate) ([]models.QualityPoint, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT DISTINCT platform, title_id, vote_average
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL AND vote_average IS NOT NULL
		ORDER BY platform, title_id`, latestDate, where)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.QualityPoint, error) {
			var r models.QualityPoint
			err := rows.Scan(&r.Platform, &r.TitleID, &r.VoteAverage)
			return r, err
		})
}

// GenreTitleCounts returns distinct title counts per (platform, genre),
// unranked. Rows with no resolved genre are excluded.
func (db *DB) GenreTitleCounts(ctx context.Context, p filter.Predicate) ([]models.GenreRank, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform, genre, COUNT(DISTINCT title_id)
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL AND genre IS NOT NULL
		GROUP BY platform, genre
		ORDER BY platform, genre`, latestDate, where)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.GenreRank, error) {
			var r models.GenreRank
			err := rows.Scan(&r.Platform, &r.Genre, &r.TitleCount)
			return r, err
		})
}

// CountryTitleCounts returns distinct title counts per
// (platform, media type, country), unranked. Rows with no resolved country
// are excluded.
func (db *DB) CountryTitleCounts(ctx context.Context, p filter.Predicate) ([]models.CountryRank, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform, media_type, country, COUNT(DISTINCT title_id)
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL AND country IS NOT NULL
		GROUP BY platform, media_type, country
		ORDER BY platform, media_type, country`, latestDate, where)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.CountryRank, error) {
			var r models.CountryRank
			err := rows.Scan(&r.Platform, &r.MediaType, &r.Country, &r.TitleCount)
			return r, err
		})
}

// RecentContent returns distinct title counts per (platform, release year)
// for years at or above minYear.
func (db *DB) RecentContent(ctx context.Context, p filter.Predicate, minYear int) ([]models.RecentContentRow, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform, release_year, COUNT(DISTINCT title_id)
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL AND release_year >= ?
		GROUP BY platform, release_year
		ORDER BY platform, release_year`, latestDate, where)
	args = append(args, minYear)

	return queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (models.RecentContentRow, error) {
			var r models.RecentContentRow
			err := rows.Scan(&r.Platform, &r.ReleaseYear, &r.TitleCount)
			return r, err
		})
}

// PlatformTitleTotals returns the distinct title count per platform,
// used as the denominator for genre share computations.
func (db *DB) PlatformTitleTotals(ctx context.Context, p filter.Predicate) (map[string]int, error) {
	where, args := predicateWhere(p)
	query := fmt.Sprintf(`
		SELECT platform, COUNT(DISTINCT title_id)
		FROM analytics
		WHERE %s AND %s AND platform IS NOT NULL
		GROUP BY platform`, latestDate, where)

	type platformTotal struct {
		platform string
		total    int
	}
	rows, err := queryAndScan(ctx, db.conn, query, args,
		func(rows *sql.Rows) (platformTotal, error) {
			var r platformTotal
			err := rows.Scan(&r.platform, &r.total)
			return r, err
		})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, r := range rows {
		totals[r.platform] = r.total
	}
	return totals, nil
}

// ChangeSets returns the distinct (platform, title, media type) triples
// present on the two most recent snapshot dates that still have rows after
// filtering. With fewer than two such dates the previous set is empty and
// no change can be derived.
func (db *DB) ChangeSets(ctx context.Context, p filter.Predicate) (current, previous []models.CatalogKey, err error) {
	where, args := predicateWhere(p)

	dateQuery := fmt.Sprintf(
		"SELECT DISTINCT date FROM analytics WHERE %s ORDER BY date DESC LIMIT 2", where)
	dates, err := queryAndScan(ctx, db.conn, dateQuery, args,
		func(rows *sql.Rows) (sql.NullTime, error) {
			var d sql.NullTime
			err := rows.Scan(&d)
			return d, err
		})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve snapshot dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil, nil
	}

	keyQuery := fmt.Sprintf(`
		SELECT DISTINCT platform, title_id, media_type
		FROM analytics
		WHERE date = ? AND %s AND platform IS NOT NULL
		ORDER BY platform, title_id`, where)

	keysForDate := func(d sql.NullTime) ([]models.CatalogKey, error) {
		dateArgs := append([]interface{}{d.Time}, args...)
		return queryAndScan(ctx, db.conn, keyQuery, dateArgs,
			func(rows *sql.Rows) (models.CatalogKey, error) {
				var k models.CatalogKey
				err := rows.Scan(&k.Platform, &k.TitleID, &k.MediaType)
				return k, err
			})
	}

	current, err = keysForDate(dates[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load current snapshot keys: %w", err)
	}
	if len(dates) > 1 {
		previous, err = keysForDate(dates[1])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load previous snapshot keys: %w", err)
		}
	}
	return current, previous, nil
}

// FilterOptions returns the distinct dimension values present in the latest
// snapshot, for populating dashboard filter widgets.
func (db *DB) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	opts := &models.FilterOptions{}
	columns := []struct {
		column string
		dest   *[]string
	}{
		{"platform", &opts.Platforms},
		{"genre", &opts.Genres},
		{"language", &opts.Languages},
		{"country", &opts.Countries},
	}

	for _, c := range columns {
		query := fmt.Sprintf(
			"SELECT DISTINCT %s FROM analytics WHERE %s AND %s IS NOT NULL ORDER BY %s",
			c.column, latestDate, c.column, c.column)
		values, err := queryAndScan(ctx, db.conn, query, nil,
			func(rows *sql.Rows) (string, error) {
				var v string
				err := rows.Scan(&v)
				return v, err
			})
		if err != nil {
			return nil, fmt.Errorf("failed to load %s options: %w", c.column, err)
		}
		*c.dest = values
	}

	return opts, nil
}

// RecentFactRows loads the fact rows for the two most recent snapshot
// dates, enough to back every metric including period-over-period change.
// This is how the in-memory analytics back end gets its data.
func (db *DB) RecentFactRows(ctx context.Context) ([]models.AnalyticsFact, error) {
	query := `
		SELECT date, platform, media_type, tmdb_id, title_id, release_year,
		       vote_count, vote_average, popularity, genre, country, language
		FROM analytics
		WHERE date IN (SELECT DISTINCT date FROM analytics ORDER BY date DESC LIMIT 2)`

	return queryAndScan(ctx, db.conn, query, nil,
		func(rows *sql.Rows) (models.AnalyticsFact, error) {
			var (
				f           models.AnalyticsFact
				platform    sql.NullString
				releaseYear sql.NullInt64
				voteCount   sql.NullInt64
				voteAverage sql.NullFloat64
				popularity  sql.NullFloat64
				genre       sql.NullString
				country     sql.NullString
				language    sql.NullString
			)
			err := rows.Scan(&f.Date, &platform, &f.MediaType, &f.TMDBID, &f.TitleID,
				&releaseYear, &voteCount, &voteAverage, &popularity,
				&genre, &country, &language)
			if err != nil {
				return f, err
			}
			f.Platform = platform.String
			if releaseYear.Valid {
				y := int(releaseYear.Int64)
				f.ReleaseYear = &y
			}
			if voteCount.Valid {
				n := int(voteCount.Int64)
				f.VoteCount = &n
			}
			if voteAverage.Valid {
				f.VoteAverage = &voteAverage.Float64
			}
			if popularity.Valid {
				f.Popularity = &popularity.Float64
			}
			if genre.Valid {
				f.Genre = &genre.String
			}
			if country.Valid {
				f.Country = &country.String
			}
			if language.Valid {
				f.Language = &language.String
			}
			return f, nil
		})
}
