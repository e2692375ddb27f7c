package handlers

import (
	"context"

	"go.uber.org/zap"

	"alnretool/application/ports"
	"alnretool/application/queries"
	"alnretool/application/queries/bus"
	"alnretool/domain/entities"
	pkgerrors "alnretool/pkg/errors"
)

// ListEntitiesHandler serves raw entity pages in the cursor contract.
type ListEntitiesHandler struct {
	source ports.EntitySource
	logger *zap.Logger
}

// NewListEntitiesHandler creates the handler.
func NewListEntitiesHandler(source ports.EntitySource, logger *zap.Logger) *ListEntitiesHandler {
	return &ListEntitiesHandler{
		source: source,
		logger: logger,
	}
}

// Handle implements bus.QueryHandler
func (h *ListEntitiesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListEntitiesQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type for ListEntitiesHandler")
	}

	page, err := h.source.FetchPage(ctx, entities.EntityType(q.EntityType), q.Limit, q.Cursor)
	if err != nil {
		h.logger.Error("Failed to fetch entity page",
			zap.String("entityType", q.EntityType),
			zap.Error(err),
		)
		return nil, err
	}

	return page, nil
}
