package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"alnretool/application/queries"
	querybus "alnretool/application/queries/bus"
	"alnretool/pkg/common"
	pkgerrors "alnretool/pkg/errors"
)

// entityTypeAliases maps the plural path segments to entity type names.
var entityTypeAliases = map[string]string{
	"characters": "character",
	"elements":   "element",
	"puzzles":    "puzzle",
	"timeline":   "timeline",
}

// EntityHandler serves raw entity listings with cursor pagination
type EntityHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// ListEntities handles GET /entities/{entityType}
func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "entityType")
	entityType, ok := entityTypeAliases[segment]
	if !ok {
		common.RespondError(w, http.StatusNotFound, string(pkgerrors.ErrorTypeNotFound),
			"unknown entity type: "+segment)
		return
	}

	params := common.ExtractCursorParams(r)

	query := queries.ListEntitiesQuery{
		EntityType: entityType,
		Limit:      params.Limit,
		Cursor:     params.Cursor,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list entities",
			zap.String("entityType", entityType),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
