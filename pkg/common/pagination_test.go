package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCursorParams(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantCursor string
	}{
		{
			name:      "defaults",
			url:       "/api/v1/entities/character",
			wantLimit: DefaultPageLimit,
		},
		{
			name:      "explicit limit",
			url:       "/api/v1/entities/character?limit=25",
			wantLimit: 25,
		},
		{
			name:      "limit clamped to max",
			url:       "/api/v1/entities/character?limit=5000",
			wantLimit: MaxPageLimit,
		},
		{
			name:      "limit clamped to min",
			url:       "/api/v1/entities/character?limit=0",
			wantLimit: 1,
		},
		{
			name:      "negative limit clamped to min",
			url:       "/api/v1/entities/character?limit=-5",
			wantLimit: 1,
		},
		{
			name:      "non-numeric limit ignored",
			url:       "/api/v1/entities/character?limit=abc",
			wantLimit: DefaultPageLimit,
		},
		{
			name:       "cursor passthrough",
			url:        "/api/v1/entities/character?cursor=abc123",
			wantLimit:  DefaultPageLimit,
			wantCursor: "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			params := ExtractCursorParams(r)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantCursor, params.Cursor)
		})
	}
}
