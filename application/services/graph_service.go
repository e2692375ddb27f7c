// Package services holds the orchestration between the fetch layer and
// the pure domain pipeline.
package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"alnretool/application/ports"
	"alnretool/domain/filters"
	"alnretool/domain/graph"
	"alnretool/domain/synthesis"
)

// PipelineMetrics records cache effectiveness and build latency. A nil
// implementation disables recording.
type PipelineMetrics interface {
	ObserveGraphBuild(d time.Duration)
	CacheHit()
	CacheMiss()
}

// GraphService runs the fetch → synthesize → build pipeline and caches
// built graphs by view and server-filter cache key. The client-only
// filter subset never participates in the cache key: it is applied to a
// copy of the cached graph per request.
type GraphService struct {
	source   ports.EntitySource
	cache    ports.Cache
	cacheTTL int
	metrics  PipelineMetrics
	logger   *zap.Logger
}

// NewGraphService creates a graph service. cacheTTL is in seconds,
// metrics may be nil.
func NewGraphService(source ports.EntitySource, cache ports.Cache, cacheTTL int, metrics PipelineMetrics, logger *zap.Logger) *GraphService {
	return &GraphService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// BuildGraph returns the graph for one view and filter state, serving
// from cache when the server-pushable filter subset matches a previous
// build.
func (s *GraphService) BuildGraph(ctx context.Context, cfg graph.Config, state filters.FilterState) (*graph.Graph, error) {
	serverFilters := filters.ExtractServerSideFilters(state.Characters, state.Puzzles, state.Content)
	clientFilters := filters.ExtractClientSideFilters(state)

	cacheKey := s.cacheKey(cfg, serverFilters)

	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		if g, ok := cached.(*graph.Graph); ok {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			result := filters.Apply(g, clientFilters)
			result.Metadata.Cached = true
			return result, nil
		}
	}
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}

	start := time.Now()
	g, err := s.buildFresh(ctx, cfg, serverFilters)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveGraphBuild(time.Since(start))
	}

	if err := s.cache.Set(ctx, cacheKey, g, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache graph", zap.String("key", cacheKey), zap.Error(err))
	}

	return filters.Apply(g, clientFilters), nil
}

// Invalidate drops the cached graph for one view/filter combination.
func (s *GraphService) Invalidate(ctx context.Context, cfg graph.Config, state filters.FilterState) error {
	serverFilters := filters.ExtractServerSideFilters(state.Characters, state.Puzzles, state.Content)
	return s.cache.Delete(ctx, s.cacheKey(cfg, serverFilters))
}

// cacheKey covers every Config field that changes the built graph.
func (s *GraphService) cacheKey(cfg graph.Config, serverFilters filters.ServerSideFilters) string {
	view := string(cfg.View)
	if view == "" {
		view = string(graph.ViewFullGraph)
	}
	key := "graph:" + view + ":" + filters.CreateFilterCacheKey(serverFilters)
	if len(cfg.EntityTypes) > 0 {
		types := make([]string, len(cfg.EntityTypes))
		for i, t := range cfg.EntityTypes {
			types[i] = string(t)
		}
		sort.Strings(types)
		key += ":types=" + strings.Join(types, ",")
	}
	if cfg.RootID != "" {
		key += ":root=" + cfg.RootID
	}
	if cfg.MaxDepth > 0 {
		key += ":depth=" + strconv.Itoa(cfg.MaxDepth)
	}
	if !cfg.IncludeOrphans {
		key += ":no-orphans"
	}
	return key
}

func (s *GraphService) buildFresh(ctx context.Context, cfg graph.Config, serverFilters filters.ServerSideFilters) (*graph.Graph, error) {
	dataset, err := s.source.FetchDataset(ctx, serverFilters)
	if err != nil {
		return nil, err
	}

	synthesized, missing, err := synthesis.Synthesize(dataset)
	if err != nil {
		return nil, err
	}
	// Dangling references are data-quality diagnostics for monitoring,
	// not failures.
	for _, m := range missing {
		s.logger.Warn("Dangling reference in source data",
			zap.String("missingId", m.ID),
			zap.String("referencedBy", m.ReferencedBy),
			zap.String("relation", string(m.Relation)),
		)
	}

	return graph.Build(synthesized, cfg)
}
