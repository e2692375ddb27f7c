package handlers

import (
	"context"

	"go.uber.org/zap"

	"alnretool/application/commands"
	"alnretool/application/commands/bus"
	"alnretool/domain/cluster"
	pkgerrors "alnretool/pkg/errors"
)

// ClusterStateHandler applies cluster state transitions. One handler
// serves all four cluster commands; the bus routes by command type.
type ClusterStateHandler struct {
	state  *cluster.StateMachine
	logger *zap.Logger
}

// NewClusterStateHandler creates the handler.
func NewClusterStateHandler(state *cluster.StateMachine, logger *zap.Logger) *ClusterStateHandler {
	return &ClusterStateHandler{
		state:  state,
		logger: logger,
	}
}

// Handle implements bus.CommandHandler
func (h *ClusterStateHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case commands.ToggleClusterCommand:
		expanded := h.state.Toggle(c.ClusterID)
		h.logger.Debug("Cluster toggled",
			zap.String("clusterId", c.ClusterID),
			zap.Bool("expanded", expanded),
		)
		return nil

	case commands.ExpandAllClustersCommand:
		h.state.ExpandAll()
		return nil

	case commands.CollapseAllClustersCommand:
		h.state.CollapseAll()
		return nil

	case commands.SelectNodeCommand:
		if opened := h.state.OnNodeSelected(c.NodeID); len(opened) > 0 {
			h.logger.Debug("Selection auto-expanded clusters",
				zap.String("nodeId", c.NodeID),
				zap.Strings("clusterIds", opened),
			)
		}
		return nil

	default:
		return pkgerrors.NewInternalError("invalid command type for ClusterStateHandler")
	}
}
