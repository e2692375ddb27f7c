package queries

import (
	"github.com/go-playground/validator/v10"

	"alnretool/domain/filters"
)

var validate = validator.New()

// GetGraphQuery requests a built graph for one view.
type GetGraphQuery struct {
	View           string   `json:"view" validate:"omitempty,oneof=full-graph puzzle-focus character-journey node-connections"`
	EntityTypes    []string `json:"entityTypes" validate:"omitempty,dive,oneof=character element puzzle timeline"`
	IncludeOrphans bool     `json:"includeOrphans"`
	RootID         string   `json:"rootId"`
	MaxDepth       int      `json:"maxDepth" validate:"min=0,max=10"`

	Filters filters.FilterState `json:"filters"`
}

// Validate implements bus.Query
func (q GetGraphQuery) Validate() error {
	return validate.Struct(q)
}

// GetClustersQuery requests clusters computed over a built graph.
type GetClustersQuery struct {
	View           string   `json:"view" validate:"omitempty,oneof=full-graph puzzle-focus character-journey node-connections"`
	EntityTypes    []string `json:"entityTypes" validate:"omitempty,dive,oneof=character element puzzle timeline"`
	IncludeOrphans bool     `json:"includeOrphans"`
	RootID         string   `json:"rootId"`

	PuzzleChains      bool `json:"puzzleChains"`
	CharacterGroups   bool `json:"characterGroups"`
	TimelineSequences bool `json:"timelineSequences"`
	MinClusterSize    int  `json:"minClusterSize" validate:"min=0,max=100"`

	Filters filters.FilterState `json:"filters"`
}

// Validate implements bus.Query
func (q GetClustersQuery) Validate() error {
	return validate.Struct(q)
}

// ListEntitiesQuery requests one page of raw entities.
type ListEntitiesQuery struct {
	EntityType string `json:"entityType" validate:"required,oneof=character element puzzle timeline"`
	Limit      int    `json:"limit" validate:"min=1,max=1000"`
	Cursor     string `json:"cursor"`
}

// Validate implements bus.Query
func (q ListEntitiesQuery) Validate() error {
	return validate.Struct(q)
}
