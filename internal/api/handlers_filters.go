// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

package api

import (
	"net/http"
)

// FilterOptions returns the distinct values of each set dimension so the
// dashboard can populate its filter widgets. Always computed over the
// whole fact table, never filtered: options must not shrink as the user
// narrows a selection.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	h.respondCached(w, r, "Failed to load filter options", func() (interface{}, error) {
		return h.db.FilterOptions(r.Context())
	})
}
