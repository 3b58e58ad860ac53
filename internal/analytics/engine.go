// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

// Package analytics computes catalog composition metrics over a filtered
// fact source. The derived math (top-N rankings, genre diversity,
// period-over-period change) lives here once, in Engine, so both fact
// sources - the SQL back end and the in-memory Snapshot - produce
// identical results by construction.
package analytics

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/streamatlas/internal/filter"
	"github.com/tomtom215/streamatlas/internal/models"
)

// defaultTopN is the ranking depth for genre and country leaders.
const defaultTopN = 3

// Source supplies filtered base aggregates from a fact store. Implemented
// by database.DB (SQL lowering) and by Snapshot (row-wise evaluation);
// the two must agree for every predicate.
//
// All methods except ChangeSets are scoped to the newest snapshot date.
// Every title count deduplicates on title_id despite genre/country
// fan-out, and grouped results exclude rows whose grouping dimension is
// unresolved.
type Source interface {
	PlatformCount(ctx context.Context, p filter.Predicate) (int, error)
	DistinctTitleCount(ctx context.Context, p filter.Predicate, mediaType string) (int, error)
	Overview(ctx context.Context, p filter.Predicate) ([]models.OverviewRow, error)
	TitleCounts(ctx context.Context, p filter.Predicate) ([]models.TitleCountRow, error)
	Quality(ctx context.Context, p filter.Predicate) ([]models.QualityPoint, error)
	GenreTitleCounts(ctx context.Context, p filter.Predicate) ([]models.GenreRank, error)
	CountryTitleCounts(ctx context.Context, p filter.Predicate) ([]models.CountryRank, error)
	RecentContent(ctx context.Context, p filter.Predicate, minYear int) ([]models.RecentContentRow, error)
	PlatformTitleTotals(ctx context.Context, p filter.Predicate) (map[string]int, error)
	ChangeSets(ctx context.Context, p filter.Predicate) (current, previous []models.CatalogKey, err error)
}

// Engine computes the full metric set over a Source.
type Engine struct {
	src  Source
	topN int
}

// NewEngine returns an Engine over the given source with the default
// ranking depth.
func NewEngine(src Source) *Engine {
	return &Engine{src: src, topN: defaultTopN}
}

// PlatformCount returns the number of distinct platforms after filtering.
func (e *Engine) PlatformCount(ctx context.Context, p filter.Predicate) (int, error) {
	return e.src.PlatformCount(ctx, p)
}

// MovieCount returns the number of distinct movie titles after filtering.
func (e *Engine) MovieCount(ctx context.Context, p filter.Predicate) (int, error) {
	return e.src.DistinctTitleCount(ctx, p, models.MediaTypeMovie)
}

// TVCount returns the number of distinct series titles after filtering.
func (e *Engine) TVCount(ctx context.Context, p filter.Predicate) (int, error) {
	return e.src.DistinctTitleCount(ctx, p, models.MediaTypeTV)
}

// Overview returns per-platform summary statistics.
func (e *Engine) Overview(ctx context.Context, p filter.Predicate) ([]models.OverviewRow, error) {
	return e.src.Overview(ctx, p)
}

// TitleCounts returns per-platform title counts split by media type.
func (e *Engine) TitleCounts(ctx context.Context, p filter.Predicate) ([]models.TitleCountRow, error) {
	return e.src.TitleCounts(ctx, p)
}

// Quality returns deduplicated per-title rating observations per platform.
func (e *Engine) Quality(ctx context.Context, p filter.Predicate) ([]models.QualityPoint, error) {
	return e.src.Quality(ctx, p)
}

// RecentContent returns distinct title counts per (platform, release year)
// at or above the given year floor.
func (e *Engine) RecentContent(ctx context.Context, p filter.Predicate, minYear int) ([]models.RecentContentRow, error) {
	return e.src.RecentContent(ctx, p, minYear)
}

// TopGenres returns each platform's leading genres by distinct title
// count, at most topN per platform. Counts tie-break lexicographically on
// the genre label so rankings are deterministic.
func (e *Engine) TopGenres(ctx context.Context, p filter.Predicate) ([]models.GenreRank, error) {
	all, err := e.src.GenreTitleCounts(ctx, p)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[string][]models.GenreRank)
	for _, r := range all {
		byPlatform[r.Platform] = append(byPlatform[r.Platform], r)
	}

	platforms := sortedKeys(byPlatform)
	ranked := make([]models.GenreRank, 0, len(platforms)*e.topN)
	for _, platform := range platforms {
		rows := byPlatform[platform]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].TitleCount != rows[j].TitleCount {
				return rows[i].TitleCount > rows[j].TitleCount
			}
			return rows[i].Genre < rows[j].Genre
		})
		if len(rows) > e.topN {
			rows = rows[:e.topN]
		}
		ranked = append(ranked, rows...)
	}
	return ranked, nil
}

// TopCountries returns each (platform, media type) pair's leading
// production countries by distinct title count, at most topN per pair.
func (e *Engine) TopCountries(ctx context.Context, p filter.Predicate) ([]models.CountryRank, error) {
	all, err := e.src.CountryTitleCounts(ctx, p)
	if err != nil {
		return nil, err
	}

	type group struct {
		platform  string
		mediaType string
	}
	byGroup := make(map[group][]models.CountryRank)
	for _, r := range all {
		g := group{r.Platform, r.MediaType}
		byGroup[g] = append(byGroup[g], r)
	}

	groups := make([]group, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].platform != groups[j].platform {
			return groups[i].platform < groups[j].platform
		}
		return groups[i].mediaType < groups[j].mediaType
	})

	ranked := make([]models.CountryRank, 0, len(groups)*e.topN)
	for _, g := range groups {
		rows := byGroup[g]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].TitleCount != rows[j].TitleCount {
				return rows[i].TitleCount > rows[j].TitleCount
			}
			return rows[i].Country < rows[j].Country
		})
		if len(rows) > e.topN {
			rows = rows[:e.topN]
		}
		ranked = append(ranked, rows...)
	}
	return ranked, nil
}

// Diversity returns genre diversity measures per platform. Each genre's
// share is its distinct title count divided by the platform's distinct
// title total; shares can sum past 1 because a title may carry several
// genres. Zero-share genres never enter the Shannon sum.
func (e *Engine) Diversity(ctx context.Context, p filter.Predicate) ([]models.DiversityRow, error) {
	counts, err := e.src.GenreTitleCounts(ctx, p)
	if err != nil {
		return nil, err
	}
	totals, err := e.src.PlatformTitleTotals(ctx, p)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[string][]int)
	for _, r := range counts {
		byPlatform[r.Platform] = append(byPlatform[r.Platform], r.TitleCount)
	}

	rows := make([]models.DiversityRow, 0, len(byPlatform))
	for _, platform := range sortedKeys(byPlatform) {
		total := totals[platform]
		if total == 0 {
			continue
		}
		row := models.DiversityRow{Platform: platform}
		for _, count := range byPlatform[platform] {
			if count == 0 {
				continue
			}
			share := float64(count) / float64(total)
			row.Richness++
			if share > row.Dominance {
				row.Dominance = share
			}
			row.Shannon -= share * math.Log(share)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CatalogChange diffs the two most recent snapshots per platform. Losses
// are reported as non-positive numbers and NetChange is the sum of all
// four signed quantities. A platform present on only one of the two dates
// contributes zero for the missing side rather than being dropped.
func (e *Engine) CatalogChange(ctx context.Context, p filter.Predicate) ([]models.CatalogChangeRow, error) {
	current, previous, err := e.src.ChangeSets(ctx, p)
	if err != nil {
		return nil, err
	}

	currentSet := make(map[models.CatalogKey]struct{}, len(current))
	for _, k := range current {
		currentSet[k] = struct{}{}
	}
	previousSet := make(map[models.CatalogKey]struct{}, len(previous))
	for _, k := range previous {
		previousSet[k] = struct{}{}
	}

	changes := make(map[string]*models.CatalogChangeRow)
	rowFor := func(platform string) *models.CatalogChangeRow {
		if row, ok := changes[platform]; ok {
			return row
		}
		row := &models.CatalogChangeRow{Platform: platform}
		changes[platform] = row
		return row
	}

	for k := range currentSet {
		if _, ok := previousSet[k]; ok {
			rowFor(k.Platform) // Unchanged titles still register the platform.
			continue
		}
		row := rowFor(k.Platform)
		if k.MediaType == models.MediaTypeMovie {
			row.MovieGained++
		} else {
			row.TVGained++
		}
	}
	for k := range previousSet {
		if _, ok := currentSet[k]; ok {
			continue
		}
		row := rowFor(k.Platform)
		if k.MediaType == models.MediaTypeMovie {
			row.MovieLost--
		} else {
			row.TVLost--
		}
	}

	rows := make([]models.CatalogChangeRow, 0, len(changes))
	for _, platform := range sortedKeys(changes) {
		row := changes[platform]
		row.NetChange = row.MovieGained + row.MovieLost + row.TVGained + row.TVLost
		rows = append(rows, *row)
	}
	return rows, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
