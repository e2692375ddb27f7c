// Package ports defines the interfaces the application layer consumes.
// Infrastructure provides the implementations.
package ports

import (
	"context"

	"alnretool/domain/entities"
	"alnretool/domain/filters"
)

// EntitySource fetches entity collections from the upstream data
// source. FetchDataset drains pagination for all four collections and
// fans the four fetches out concurrently: synthesis requires the joined
// result, a partial dataset is not meaningful input.
type EntitySource interface {
	FetchDataset(ctx context.Context, f filters.ServerSideFilters) (entities.Dataset, error)
	FetchPage(ctx context.Context, entityType entities.EntityType, limit int, cursor string) (*EntityPage, error)
}

// EntityPage is one page of raw entities in the cursor contract.
type EntityPage struct {
	Data       interface{} `json:"data"`
	HasMore    bool        `json:"hasMore"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// Cache stores built graphs keyed by view type and server-filter cache
// key.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
}
