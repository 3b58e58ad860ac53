// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/streamatlas/internal/filter"
	"github.com/tomtom215/streamatlas/internal/models"
)

// FactLoader supplies the fact rows backing an in-memory Snapshot.
// Implemented by database.DB via RecentFactRows.
type FactLoader interface {
	RecentFactRows(ctx context.Context) ([]models.AnalyticsFact, error)
}

// NewSnapshotEngine loads the two newest snapshots from the store and
// returns an Engine over the in-memory back end. The loaded data is fixed:
// a caller wanting newer snapshots builds a new engine.
func NewSnapshotEngine(ctx context.Context, loader FactLoader) (*Engine, error) {
	facts, err := loader.RecentFactRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot rows: %w", err)
	}
	return NewEngine(NewSnapshot(facts)), nil
}

// Snapshot is the in-memory analytics back end: an immutable set of fact
// rows evaluated row by row against compiled predicates. It mirrors the
// SQL back end's semantics exactly - newest-date scoping, title_id
// deduplication, title-level genre/country membership, and exclusion of
// rows whose grouping dimension is unresolved - so the two sources are
// interchangeable behind Engine.
//
// A Snapshot is safe for concurrent readers; nothing mutates it after
// construction.
type Snapshot struct {
	facts []models.AnalyticsFact
	dates []time.Time // distinct snapshot dates, newest first

	// Title-level relation indexes built over all loaded rows. A genre or
	// country constraint matches a title when any of the title's fact rows
	// carries a value in the set, regardless of which row.
	titleGenres    map[int]map[string]struct{}
	titleCountries map[int]map[string]struct{}
}

// NewSnapshot builds an immutable in-memory back end from fact rows,
// typically the two newest snapshots loaded from the database.
func NewSnapshot(facts []models.AnalyticsFact) *Snapshot {
	s := &Snapshot{
		facts:          facts,
		titleGenres:    make(map[int]map[string]struct{}),
		titleCountries: make(map[int]map[string]struct{}),
	}

	seen := make(map[time.Time]struct{})
	for _, f := range facts {
		if _, ok := seen[f.Date]; !ok {
			seen[f.Date] = struct{}{}
			s.dates = append(s.dates, f.Date)
		}
		if f.Genre != nil {
			addRelation(s.titleGenres, f.TitleID, *f.Genre)
		}
		if f.Country != nil {
			addRelation(s.titleCountries, f.TitleID, *f.Country)
		}
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].After(s.dates[j]) })

	return s
}

func addRelation(index map[int]map[string]struct{}, titleID int, value string) {
	set, ok := index[titleID]
	if !ok {
		set = make(map[string]struct{})
		index[titleID] = set
	}
	set[value] = struct{}{}
}

// matches evaluates the row-wise and title-level constraints for one fact
// row. Rows with a nil value in a constrained numeric or language
// dimension never match, mirroring NULL comparison semantics in SQL.
func (s *Snapshot) matches(f models.AnalyticsFact, p filter.Predicate) bool {
	if p.MediaType != nil && f.MediaType != *p.MediaType {
		return false
	}
	if len(p.Platforms) > 0 && (f.Platform == "" || !contains(p.Platforms, f.Platform)) {
		return false
	}
	if p.RatingMin != nil {
		if f.VoteAverage == nil || *f.VoteAverage < *p.RatingMin || *f.VoteAverage > *p.RatingMax {
			return false
		}
	}
	if p.YearMin != nil {
		if f.ReleaseYear == nil || *f.ReleaseYear < *p.YearMin || *f.ReleaseYear > *p.YearMax {
			return false
		}
	}
	if len(p.Genres) > 0 && !s.titleHasAny(s.titleGenres, f.TitleID, p.Genres) {
		return false
	}
	if len(p.Countries) > 0 && !s.titleHasAny(s.titleCountries, f.TitleID, p.Countries) {
		return false
	}
	if len(p.Languages) > 0 && (f.Language == nil || !contains(p.Languages, *f.Language)) {
		return false
	}
	return true
}

func (s *Snapshot) titleHasAny(index map[int]map[string]struct{}, titleID int, values []string) bool {
	set, ok := index[titleID]
	if !ok {
		return false
	}
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// latestMatching returns the matching rows of the newest snapshot date.
func (s *Snapshot) latestMatching(p filter.Predicate) []models.AnalyticsFact {
	if len(s.dates) == 0 {
		return nil
	}
	latest := s.dates[0]
	var rows []models.AnalyticsFact
	for _, f := range s.facts {
		if f.Date.Equal(latest) && s.matches(f, p) {
			rows = append(rows, f)
		}
	}
	return rows
}

// PlatformCount implements Source.
func (s *Snapshot) PlatformCount(_ context.Context, p filter.Predicate) (int, error) {
	platforms := make(map[string]struct{})
	for _, f := range s.latestMatching(p) {
		if f.Platform != "" {
			platforms[f.Platform] = struct{}{}
		}
	}
	return len(platforms), nil
}

// DistinctTitleCount implements Source.
func (s *Snapshot) DistinctTitleCount(_ context.Context, p filter.Predicate, mediaType string) (int, error) {
	titles := make(map[int]struct{})
	for _, f := range s.latestMatching(p) {
		if mediaType != "" && f.MediaType != mediaType {
			continue
		}
		titles[f.TitleID] = struct{}{}
	}
	return len(titles), nil
}

// Overview implements Source.
func (s *Snapshot) Overview(_ context.Context, p filter.Predicate) ([]models.OverviewRow, error) {
	type titleStats struct {
		rating     *float64
		popularity *float64
	}
	byPlatform := make(map[string]map[int]titleStats)
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" {
			continue
		}
		titles, ok := byPlatform[f.Platform]
		if !ok {
			titles = make(map[int]titleStats)
			byPlatform[f.Platform] = titles
		}
		titles[f.TitleID] = titleStats{rating: f.VoteAverage, popularity: f.Popularity}
	}

	rows := make([]models.OverviewRow, 0, len(byPlatform))
	for _, platform := range sortedKeys(byPlatform) {
		titles := byPlatform[platform]
		row := models.OverviewRow{Platform: platform, TitleCount: len(titles)}
		var ratingSum, popularitySum float64
		var rated, popular int
		for _, stats := range titles {
			if stats.rating != nil {
				ratingSum += *stats.rating
				rated++
			}
			if stats.popularity != nil {
				popularitySum += *stats.popularity
				popular++
			}
		}
		if rated > 0 {
			row.AverageRating = ratingSum / float64(rated)
		}
		if popular > 0 {
			row.AveragePopularity = popularitySum / float64(popular)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TitleCounts implements Source.
func (s *Snapshot) TitleCounts(_ context.Context, p filter.Predicate) ([]models.TitleCountRow, error) {
	type typeSets struct {
		movies map[int]struct{}
		tv     map[int]struct{}
		all    map[int]struct{}
	}
	byPlatform := make(map[string]*typeSets)
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" {
			continue
		}
		sets, ok := byPlatform[f.Platform]
		if !ok {
			sets = &typeSets{
				movies: make(map[int]struct{}),
				tv:     make(map[int]struct{}),
				all:    make(map[int]struct{}),
			}
			byPlatform[f.Platform] = sets
		}
		sets.all[f.TitleID] = struct{}{}
		switch f.MediaType {
		case models.MediaTypeMovie:
			sets.movies[f.TitleID] = struct{}{}
		case models.MediaTypeTV:
			sets.tv[f.TitleID] = struct{}{}
		}
	}

	rows := make([]models.TitleCountRow, 0, len(byPlatform))
	for _, platform := range sortedKeys(byPlatform) {
		sets := byPlatform[platform]
		rows = append(rows, models.TitleCountRow{
			Platform: platform,
			Movies:   len(sets.movies),
			TV:       len(sets.tv),
			Total:    len(sets.all),
		})
	}
	return rows, nil
}

// Quality implements Source.
func (s *Snapshot) Quality(_ context.Context, p filter.Predicate) ([]models.QualityPoint, error) {
	type key struct {
		platform string
		titleID  int
	}
	seen := make(map[key]float64)
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" || f.VoteAverage == nil {
			continue
		}
		seen[key{f.Platform, f.TitleID}] = *f.VoteAverage
	}

	points := make([]models.QualityPoint, 0, len(seen))
	for k, rating := range seen {
		points = append(points, models.QualityPoint{Platform: k.platform, TitleID: k.titleID, VoteAverage: rating})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Platform != points[j].Platform {
			return points[i].Platform < points[j].Platform
		}
		return points[i].TitleID < points[j].TitleID
	})
	return points, nil
}

// GenreTitleCounts implements Source.
func (s *Snapshot) GenreTitleCounts(_ context.Context, p filter.Predicate) ([]models.GenreRank, error) {
	type key struct {
		platform string
		genre    string
	}
	titles := make(map[key]map[int]struct{})
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" || f.Genre == nil {
			continue
		}
		k := key{f.Platform, *f.Genre}
		if titles[k] == nil {
			titles[k] = make(map[int]struct{})
		}
		titles[k][f.TitleID] = struct{}{}
	}

	rows := make([]models.GenreRank, 0, len(titles))
	for k, set := range titles {
		rows = append(rows, models.GenreRank{Platform: k.platform, Genre: k.genre, TitleCount: len(set)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Platform != rows[j].Platform {
			return rows[i].Platform < rows[j].Platform
		}
		return rows[i].Genre < rows[j].Genre
	})
	return rows, nil
}

// CountryTitleCounts implements Source.
func (s *Snapshot) CountryTitleCounts(_ context.Context, p filter.Predicate) ([]models.CountryRank, error) {
	type key struct {
		platform  string
		mediaType string
		country   string
	}
	titles := make(map[key]map[int]struct{})
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" || f.Country == nil {
			continue
		}
		k := key{f.Platform, f.MediaType, *f.Country}
		if titles[k] == nil {
			titles[k] = make(map[int]struct{})
		}
		titles[k][f.TitleID] = struct{}{}
	}

	rows := make([]models.CountryRank, 0, len(titles))
	for k, set := range titles {
		rows = append(rows, models.CountryRank{
			Platform: k.platform, MediaType: k.mediaType, Country: k.country, TitleCount: len(set),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Platform != rows[j].Platform {
			return rows[i].Platform < rows[j].Platform
		}
		if rows[i].MediaType != rows[j].MediaType {
			return rows[i].MediaType < rows[j].MediaType
		}
		return rows[i].Country < rows[j].Country
	})
	return rows, nil
}

// RecentContent implements Source.
func (s *Snapshot) RecentContent(_ context.Context, p filter.Predicate, minYear int) ([]models.RecentContentRow, error) {
	type key struct {
		platform string
		year     int
	}
	titles := make(map[key]map[int]struct{})
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" || f.ReleaseYear == nil || *f.ReleaseYear < minYear {
			continue
		}
		k := key{f.Platform, *f.ReleaseYear}
		if titles[k] == nil {
			titles[k] = make(map[int]struct{})
		}
		titles[k][f.TitleID] = struct{}{}
	}

	rows := make([]models.RecentContentRow, 0, len(titles))
	for k, set := range titles {
		rows = append(rows, models.RecentContentRow{Platform: k.platform, ReleaseYear: k.year, TitleCount: len(set)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Platform != rows[j].Platform {
			return rows[i].Platform < rows[j].Platform
		}
		return rows[i].ReleaseYear < rows[j].ReleaseYear
	})
	return rows, nil
}

// PlatformTitleTotals implements Source.
func (s *Snapshot) PlatformTitleTotals(_ context.Context, p filter.Predicate) (map[string]int, error) {
	titles := make(map[string]map[int]struct{})
	for _, f := range s.latestMatching(p) {
		if f.Platform == "" {
			continue
		}
		if titles[f.Platform] == nil {
			titles[f.Platform] = make(map[int]struct{})
		}
		titles[f.Platform][f.TitleID] = struct{}{}
	}

	totals := make(map[string]int, len(titles))
	for platform, set := range titles {
		totals[platform] = len(set)
	}
	return totals, nil
}

// ChangeSets implements Source. The two compared dates are the newest
// dates that still have matching rows after filtering, so a filter that
// empties one snapshot entirely shifts the comparison window rather than
// diffing against nothing.
func (s *Snapshot) ChangeSets(_ context.Context, p filter.Predicate) (current, previous []models.CatalogKey, err error) {
	matching := make([]models.AnalyticsFact, 0)
	matchDates := make(map[time.Time]struct{})
	for _, f := range s.facts {
		if s.matches(f, p) {
			matching = append(matching, f)
			matchDates[f.Date] = struct{}{}
		}
	}
	if len(matchDates) == 0 {
		return nil, nil, nil
	}

	dates := make([]time.Time, 0, len(matchDates))
	for d := range matchDates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	keysForDate := func(d time.Time) []models.CatalogKey {
		seen := make(map[models.CatalogKey]struct{})
		for _, f := range matching {
			if !f.Date.Equal(d) || f.Platform == "" {
				continue
			}
			seen[models.CatalogKey{Platform: f.Platform, TitleID: f.TitleID, MediaType: f.MediaType}] = struct{}{}
		}
		keys := make([]models.CatalogKey, 0, len(seen))
		for k := range seen {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Platform != keys[j].Platform {
				return keys[i].Platform < keys[j].Platform
			}
			return keys[i].TitleID < keys[j].TitleID
		})
		return keys
	}

	current = keysForDate(dates[0])
	if len(dates) > 1 {
		previous = keysForDate(dates[1])
	}
	return current, previous, nil
}
