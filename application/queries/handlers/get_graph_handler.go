package handlers

import (
	"context"

	"go.uber.org/zap"

	"alnretool/application/queries"
	"alnretool/application/queries/bus"
	"alnretool/application/services"
	"alnretool/domain/entities"
	"alnretool/domain/graph"
	pkgerrors "alnretool/pkg/errors"
)

// GetGraphHandler serves GetGraphQuery through the graph pipeline.
type GetGraphHandler struct {
	graphs *services.GraphService
	logger *zap.Logger
}

// NewGetGraphHandler creates the handler.
func NewGetGraphHandler(graphs *services.GraphService, logger *zap.Logger) *GetGraphHandler {
	return &GetGraphHandler{
		graphs: graphs,
		logger: logger,
	}
}

// Handle implements bus.QueryHandler
func (h *GetGraphHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetGraphQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type for GetGraphHandler")
	}

	cfg := graphConfig(q.View, q.EntityTypes, q.IncludeOrphans, q.RootID, q.MaxDepth)

	g, err := h.graphs.BuildGraph(ctx, cfg, q.Filters)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Graph built",
		zap.String("view", string(cfg.View)),
		zap.Int("nodes", g.Metadata.TotalNodes),
		zap.Int("edges", g.Metadata.TotalEdges),
		zap.Int("placeholders", g.Metadata.PlaceholderNodes),
		zap.Bool("cached", g.Metadata.Cached),
	)

	return g, nil
}

// graphConfig maps the wire-level query fields onto the builder config.
func graphConfig(view string, entityTypes []string, includeOrphans bool, rootID string, maxDepth int) graph.Config {
	cfg := graph.Config{
		View:           graph.ViewType(view),
		IncludeOrphans: includeOrphans,
		RootID:         rootID,
		MaxDepth:       maxDepth,
	}
	for _, t := range entityTypes {
		cfg.EntityTypes = append(cfg.EntityTypes, entities.EntityType(t))
	}
	return cfg
}
