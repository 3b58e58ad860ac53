// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package database

import (
	"fmt"
	"strings"

	"github.com/tomtom215/streamatlas/internal/filter"
)

// predicateWhere lowers a compiled filter predicate into a parameterized
// WHERE fragment and its arguments. The fragment always starts with "1=1"
// so callers can concatenate further conditions with AND.
//
// Genre and country constraints become title membership subqueries
// (title_id IN (SELECT title_id FROM analytics WHERE genre IN (...))):
// a fact row matches when its title carries any relation in the set,
// regardless of which fan-out row holds that relation. All user-supplied
// values travel as query parameters, never as interpolated text.
func predicateWhere(p filter.Predicate) (string, []interface{}) {
	clauses := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	if p.MediaType != nil {
		clauses = append(clauses, "media_type = ?")
		args = append(args, *p.MediaType)
	}

	appendInClause("platform", p.Platforms, &clauses, &args)

	if p.RatingMin != nil && p.RatingMax != nil {
		clauses = append(clauses, "vote_average >= ? AND vote_average <= ?")
		args = append(args, *p.RatingMin, *p.RatingMax)
	}

	if p.YearMin != nil && p.YearMax != nil {
		clauses = append(clauses, "release_year >= ? AND release_year <= ?")
		args = append(args, *p.YearMin, *p.YearMax)
	}

	appendMembershipClause("genre", p.Genres, &clauses, &args)
	appendMembershipClause("country", p.Countries, &clauses, &args)

	appendInClause("language", p.Languages, &clauses, &args)

	if len(clauses) == 0 {
		return "1=1", args
	}
	return "1=1 AND " + strings.Join(clauses, " AND "), args
}

// appendInClause adds a row-wise "column IN (?, ...)" condition when the
// value set is non-empty.
func appendInClause(column string, values []string, clauses *[]string, args *[]interface{}) {
	if len(values) == 0 {
		return
	}
	*clauses = append(*clauses, fmt.Sprintf("%s IN (%s)", column, placeholders(len(values))))
	for _, v := range values {
		*args = append(*args, v)
	}
}

// appendMembershipClause adds a title-level membership condition: the row's
// title must have at least one fact row whose column value is in the set.
func appendMembershipClause(column string, values []string, clauses *[]string, args *[]interface{}) {
	if len(values) == 0 {
		return
	}
	*clauses = append(*clauses, fmt.Sprintf(
		"title_id IN (SELECT title_id FROM analytics WHERE %s IN (%s))",
		column, placeholders(len(values))))
	for _, v := range values {
		*args = append(*args, v)
	}
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	if n == 1 {
		return "?"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
