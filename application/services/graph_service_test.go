package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alnretool/application/ports"
	"alnretool/domain/entities"
	"alnretool/domain/filters"
	"alnretool/domain/graph"
)

// fakeSource returns a fixed dataset and counts fetches.
type fakeSource struct {
	ds      entities.Dataset
	fetches int
}

func (s *fakeSource) FetchDataset(ctx context.Context, f filters.ServerSideFilters) (entities.Dataset, error) {
	s.fetches++
	return s.ds, nil
}

func (s *fakeSource) FetchPage(ctx context.Context, entityType entities.EntityType, limit int, cursor string) (*ports.EntityPage, error) {
	return &ports.EntityPage{}, nil
}

// mapCache is a ports.Cache without expiry, for tests.
type mapCache struct {
	items map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]interface{})}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.items[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.items, key)
	return nil
}

func testService() (*GraphService, *fakeSource, *mapCache) {
	source := &fakeSource{ds: entities.Dataset{
		Characters: []entities.Character{
			{ID: "C1", Name: "Alex", ConnectionIDs: []string{"C2"}},
			{ID: "C2", Name: "Morgan"},
		},
		Puzzles:  []entities.Puzzle{{ID: "P1", Name: "Safe", RequiredElementIDs: []string{"E1"}}},
		Elements: []entities.Element{{ID: "E1", Name: "Key", OwnerID: "C1"}},
	}}
	cache := newMapCache()
	return NewGraphService(source, cache, 300, nil, zap.NewNop()), source, cache
}

func TestBuildGraph_CachesByServerFilters(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()
	cfg := graph.Config{View: graph.ViewFullGraph}

	first, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)
	assert.False(t, first.Metadata.Cached)
	assert.Equal(t, 1, source.fetches)

	second, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)
	assert.True(t, second.Metadata.Cached)
	assert.Equal(t, 1, source.fetches, "second build must come from cache")

	assert.Equal(t, first.Nodes, second.Nodes)
}

func TestBuildGraph_ClientFiltersDoNotSplitCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()
	cfg := graph.Config{View: graph.ViewFullGraph}

	_, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)

	withSearch, err := svc.BuildGraph(ctx, cfg, filters.FilterState{Search: "safe"})
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetches, "search is client-side, same cache entry")
	assert.True(t, withSearch.Metadata.Cached)

	matched := false
	for _, n := range withSearch.Nodes {
		if n.Data.Metadata.SearchMatch {
			matched = true
		}
	}
	assert.True(t, matched, "client filters still apply to the cached graph")
}

func TestBuildGraph_ServerFiltersSplitCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()
	cfg := graph.Config{View: graph.ViewFullGraph}

	_, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)

	state := filters.FilterState{
		Characters: filters.CharacterFilters{SelectedTiers: map[string]bool{"Core": true}},
	}
	_, err = svc.BuildGraph(ctx, cfg, state)
	require.NoError(t, err)

	assert.Equal(t, 2, source.fetches, "server-pushable filters partition the cache")
}

func TestBuildGraph_EntityTypesSplitCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()

	puzzlesOnly, err := svc.BuildGraph(ctx, graph.Config{
		View:           graph.ViewFullGraph,
		EntityTypes:    []entities.EntityType{entities.TypePuzzle},
		IncludeOrphans: true,
	}, filters.FilterState{})
	require.NoError(t, err)
	require.Len(t, puzzlesOnly.Nodes, 1)

	allTypes, err := svc.BuildGraph(ctx, graph.Config{
		View:           graph.ViewFullGraph,
		IncludeOrphans: true,
	}, filters.FilterState{})
	require.NoError(t, err)

	assert.Equal(t, 2, source.fetches, "entity-type subsets partition the cache")
	assert.False(t, allTypes.Metadata.Cached)
	assert.Greater(t, len(allTypes.Nodes), len(puzzlesOnly.Nodes),
		"full graph must not be served from the puzzle-only entry")
}

func TestBuildGraph_EntityTypeOrderSharesCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()

	_, err := svc.BuildGraph(ctx, graph.Config{
		View:           graph.ViewFullGraph,
		EntityTypes:    []entities.EntityType{entities.TypePuzzle, entities.TypeElement},
		IncludeOrphans: true,
	}, filters.FilterState{})
	require.NoError(t, err)

	second, err := svc.BuildGraph(ctx, graph.Config{
		View:           graph.ViewFullGraph,
		EntityTypes:    []entities.EntityType{entities.TypeElement, entities.TypePuzzle},
		IncludeOrphans: true,
	}, filters.FilterState{})
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetches, "type order must not partition the cache")
	assert.True(t, second.Metadata.Cached)
}

func TestBuildGraph_MaxDepthSplitsCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()

	shallow, err := svc.BuildGraph(ctx, graph.Config{
		View:     graph.ViewNodeConnections,
		RootID:   "P1",
		MaxDepth: 1,
	}, filters.FilterState{})
	require.NoError(t, err)

	deep, err := svc.BuildGraph(ctx, graph.Config{
		View:     graph.ViewNodeConnections,
		RootID:   "P1",
		MaxDepth: 2,
	}, filters.FilterState{})
	require.NoError(t, err)

	assert.Equal(t, 2, source.fetches, "neighborhood depth partitions the cache")
	assert.False(t, deep.Metadata.Cached)
	assert.Greater(t, len(deep.Nodes), len(shallow.Nodes))
}

func TestBuildGraph_ViewsSplitCache(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()

	_, err := svc.BuildGraph(ctx, graph.Config{View: graph.ViewFullGraph}, filters.FilterState{})
	require.NoError(t, err)
	_, err = svc.BuildGraph(ctx, graph.Config{View: graph.ViewPuzzleFocus}, filters.FilterState{})
	require.NoError(t, err)

	assert.Equal(t, 2, source.fetches)
}

func TestBuildGraph_CachedFlagNotPersisted(t *testing.T) {
	svc, _, cache := testService()
	ctx := context.Background()
	cfg := graph.Config{View: graph.ViewFullGraph}

	_, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)
	_, err = svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)

	for _, v := range cache.items {
		g, ok := v.(*graph.Graph)
		require.True(t, ok)
		assert.False(t, g.Metadata.Cached, "the stored graph itself stays unmarked")
	}
}

func TestInvalidate(t *testing.T) {
	svc, source, _ := testService()
	ctx := context.Background()
	cfg := graph.Config{View: graph.ViewFullGraph}

	_, err := svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, cfg, filters.FilterState{}))

	_, err = svc.BuildGraph(ctx, cfg, filters.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 2, source.fetches)
}

func TestBuildGraph_UnknownViewFailsFast(t *testing.T) {
	svc, source, _ := testService()

	_, err := svc.BuildGraph(context.Background(), graph.Config{View: "sideways"}, filters.FilterState{})
	require.Error(t, err)
	assert.Equal(t, 1, source.fetches, "fetch happens before view validation in buildFresh")
}
