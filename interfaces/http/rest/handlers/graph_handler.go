package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"alnretool/application/queries"
	querybus "alnretool/application/queries/bus"
	"alnretool/domain/filters"
	"alnretool/pkg/common"
	pkgerrors "alnretool/pkg/errors"
)

// GraphHandler handles graph-related HTTP requests
type GraphHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := queries.GetGraphQuery{
		View:           params.Get("view"),
		EntityTypes:    splitParam(params.Get("entityTypes")),
		IncludeOrphans: params.Get("includeOrphans") == "true",
		RootID:         params.Get("rootId"),
		MaxDepth:       intParam(params.Get("maxDepth"), 0),
		Filters:        parseFilterState(params),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to build graph",
			zap.String("view", query.View),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// parseFilterState maps flat query parameters onto the filter object.
// Multi-value filters are comma separated.
func parseFilterState(params map[string][]string) filters.FilterState {
	get := func(key string) string {
		if vs := params[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	state := filters.FilterState{
		Search: get("search"),
		Characters: filters.CharacterFilters{
			SelectedTiers:       setParam(get("tiers")),
			CharacterType:       get("characterType"),
			SelectedCharacterID: get("selectedCharacterId"),
			HighlightShared:     get("highlightShared") == "true",
		},
		Puzzles: filters.PuzzleFilters{
			SelectedActs:     setParam(get("acts")),
			CompletionStatus: get("completionStatus"),
		},
		Content: filters.ContentFilters{
			ContentStatus:     setParam(get("contentStatus")),
			ElementBasicTypes: setParam(get("elementBasicTypes")),
			LastEditedRange:   get("lastEditedRange"),
		},
	}

	if raw := get("hasIssues"); raw != "" {
		v := raw == "true"
		state.Content.HasIssues = &v
	}

	return state
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setParam(raw string) map[string]bool {
	parts := splitParam(raw)
	if len(parts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(parts))
	for _, p := range parts {
		set[p] = true
	}
	return set
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// respondAppError maps an error chain onto the response envelope.
func respondAppError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		common.RespondError(w, http.StatusBadRequest, string(pkgerrors.ErrorTypeValidation), fieldErrs.Error())
		return
	}

	common.RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "internal error")
}
