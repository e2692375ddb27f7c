package common

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageLimit is used when no limit query parameter is given
	DefaultPageLimit = 100
	// MaxPageLimit caps the limit query parameter
	MaxPageLimit = 1000
)

// CursorParams represents cursor pagination parameters for entity listings
type CursorParams struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

// ExtractCursorParams extracts cursor pagination parameters from a request.
// Limit is clamped to [1, MaxPageLimit].
func ExtractCursorParams(r *http.Request) CursorParams {
	params := CursorParams{Limit: DefaultPageLimit}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			if l < 1 {
				l = 1
			}
			if l > MaxPageLimit {
				l = MaxPageLimit
			}
			params.Limit = l
		}
	}

	params.Cursor = r.URL.Query().Get("cursor")

	return params
}

// Page is a single page of results in the cursor pagination contract
type Page struct {
	Data       interface{} `json:"data"`
	HasMore    bool        `json:"hasMore"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// NewPage creates a page result
func NewPage(data interface{}, hasMore bool, nextCursor string) *Page {
	return &Page{
		Data:       data,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}
}
