package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alnretool/application/commands"
	commandbus "alnretool/application/commands/bus"
	"alnretool/application/queries"
	querybus "alnretool/application/queries/bus"
	"alnretool/domain/cluster"
	"alnretool/pkg/common"
	pkgerrors "alnretool/pkg/errors"
)

// ClusterHandler serves cluster computation and expand/collapse state
type ClusterHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	state      *cluster.StateMachine
	logger     *zap.Logger
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	state *cluster.StateMachine,
	logger *zap.Logger,
) *ClusterHandler {
	return &ClusterHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		state:      state,
		logger:     logger,
	}
}

// GetClusters handles GET /clusters
func (h *ClusterHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// Rules default to all enabled; an explicit "false" disables one.
	enabled := func(key string) bool { return params.Get(key) != "false" }

	query := queries.GetClustersQuery{
		View:              params.Get("view"),
		EntityTypes:       splitParam(params.Get("entityTypes")),
		IncludeOrphans:    params.Get("includeOrphans") == "true",
		RootID:            params.Get("rootId"),
		PuzzleChains:      enabled("puzzleChains"),
		CharacterGroups:   enabled("characterGroups"),
		TimelineSequences: enabled("timelineSequences"),
		MinClusterSize:    intParam(params.Get("minClusterSize"), cluster.DefaultMinClusterSize),
		Filters:           parseFilterState(params),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to compute clusters", zap.Error(err))
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ToggleCluster handles POST /clusters/{clusterID}/toggle
func (h *ClusterHandler) ToggleCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "clusterID")

	cmd := commands.ToggleClusterCommand{ClusterID: clusterID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"clusterId": clusterID,
		"expanded":  h.state.IsExpanded(clusterID),
	})
}

// ExpandAll handles POST /clusters/expand-all
func (h *ClusterHandler) ExpandAll(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.ExpandAllClustersCommand{}); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"expanded": h.state.Snapshot()})
}

// CollapseAll handles POST /clusters/collapse-all
func (h *ClusterHandler) CollapseAll(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.CollapseAllClustersCommand{}); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"expanded": h.state.Snapshot()})
}

// SelectNode handles POST /clusters/select-node
func (h *ClusterHandler) SelectNode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NodeID string `json:"nodeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation),
			"invalid request body")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.SelectNodeCommand{NodeID: body.NodeID}); err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"nodeId":   body.NodeID,
		"expanded": h.state.Snapshot(),
	})
}
