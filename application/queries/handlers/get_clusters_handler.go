package handlers

import (
	"context"

	"go.uber.org/zap"

	"alnretool/application/queries"
	"alnretool/application/queries/bus"
	"alnretool/application/services"
	"alnretool/domain/cluster"
	pkgerrors "alnretool/pkg/errors"
)

// ClustersResult is the response payload for GetClustersQuery.
type ClustersResult struct {
	Clusters map[string]cluster.Cluster `json:"clusters"`
	Expanded map[string]bool            `json:"expanded"`
	// HiddenNodeIDs lists nodes currently hidden inside a collapsed
	// cluster, so the client can suppress them without re-deriving
	// membership.
	HiddenNodeIDs []string `json:"hiddenNodeIds"`
}

// GetClustersHandler computes clusters over a built graph and merges in
// the expand/collapse state.
type GetClustersHandler struct {
	graphs *services.GraphService
	state  *cluster.StateMachine
	logger *zap.Logger
}

// NewGetClustersHandler creates the handler.
func NewGetClustersHandler(graphs *services.GraphService, state *cluster.StateMachine, logger *zap.Logger) *GetClustersHandler {
	return &GetClustersHandler{
		graphs: graphs,
		state:  state,
		logger: logger,
	}
}

// Handle implements bus.QueryHandler
func (h *GetClustersHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetClustersQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type for GetClustersHandler")
	}

	cfg := graphConfig(q.View, q.EntityTypes, q.IncludeOrphans, q.RootID, 0)

	g, err := h.graphs.BuildGraph(ctx, cfg, q.Filters)
	if err != nil {
		return nil, err
	}

	rules := cluster.Rules{
		PuzzleChains:      q.PuzzleChains,
		CharacterGroups:   q.CharacterGroups,
		TimelineSequences: q.TimelineSequences,
		MinClusterSize:    q.MinClusterSize,
	}

	clusters := cluster.ComputeClusters(g.Nodes, g.Edges, rules)
	h.state.SetClusters(clusters)

	var hidden []string
	for _, n := range g.Nodes {
		if h.state.IsNodeHidden(n.ID) {
			hidden = append(hidden, n.ID)
		}
	}

	h.logger.Debug("Clusters computed",
		zap.Int("clusters", len(clusters)),
		zap.Int("hiddenNodes", len(hidden)),
	)

	return &ClustersResult{
		Clusters:      clusters,
		Expanded:      h.state.Snapshot(),
		HiddenNodeIDs: hidden,
	}, nil
}
