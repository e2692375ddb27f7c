package graph

import (
	"alnretool/domain/entities"
	"alnretool/domain/synthesis"
)

// Node is one vertex of the built graph. Nodes are created fresh on
// every build and never mutated afterwards; a build result is an
// immutable snapshot.
//
// ParentID establishes visual containment: the rendering consumer
// requires every parent to appear before its children in the node
// sequence.
type Node struct {
	ID       string              `json:"id"`
	Type     entities.EntityType `json:"type"`
	ParentID string              `json:"parentId,omitempty"`
	Data     NodeData            `json:"data"`
}

// NodeData is the payload handed to the rendering consumer.
type NodeData struct {
	Label    string       `json:"label"`
	Metadata NodeMetadata `json:"metadata"`
}

// NodeMetadata carries per-node display attributes and filter flags.
type NodeMetadata struct {
	Tier           string   `json:"tier,omitempty"`
	Subgroup       string   `json:"subgroup,omitempty"`
	BasicType      string   `json:"basicType,omitempty"`
	Status         string   `json:"status,omitempty"`
	Timing         []string `json:"timing,omitempty"`
	NarrativeBlock string   `json:"narrativeBlock,omitempty"`

	Placeholder bool `json:"placeholder,omitempty"`
	Container   bool `json:"container,omitempty"`

	// Visual flags set by client-side filter application, not by the
	// builder itself.
	IsFocused   bool `json:"isFocused,omitempty"`
	IsFiltered  bool `json:"isFiltered,omitempty"`
	IsConnected bool `json:"isConnected,omitempty"`
	SearchMatch bool `json:"searchMatch,omitempty"`
}

// Edge is one directed relationship instance between two node IDs.
// Multiple edges between the same pair with different relationship
// types are distinct and permitted.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Data   EdgeData `json:"data"`
}

// EdgeData tags the edge with its relationship kind.
type EdgeData struct {
	RelationshipType entities.Relation `json:"relationshipType"`
}

// ViewType selects which relationship kinds become edges and which
// containment rule applies.
type ViewType string

const (
	ViewFullGraph        ViewType = "full-graph"
	ViewPuzzleFocus      ViewType = "puzzle-focus"
	ViewCharacterJourney ViewType = "character-journey"
	ViewNodeConnections  ViewType = "node-connections"
)

// Config selects what the builder includes in a single build.
type Config struct {
	View           ViewType              `json:"view"`
	EntityTypes    []entities.EntityType `json:"entityTypes,omitempty"` // empty means all four
	IncludeOrphans bool                  `json:"includeOrphans"`
	RootID         string                `json:"rootId,omitempty"`   // focus node; required for node-connections
	MaxDepth       int                   `json:"maxDepth,omitempty"` // node-connections neighborhood radius
}

// Metadata summarizes one build.
type Metadata struct {
	BuildID          string                      `json:"buildId"`
	TotalNodes       int                         `json:"totalNodes"`
	TotalEdges       int                         `json:"totalEdges"`
	PlaceholderNodes int                         `json:"placeholderNodes"`
	MissingEntities  []synthesis.MissingEntity   `json:"missingEntities"`
	EntityCounts     map[entities.EntityType]int `json:"entityCounts"`
	BuildTimeMS      int64                       `json:"buildTime"`
	Cached           bool                        `json:"cached"`
}

// Graph is the build output consumed by the rendering client.
type Graph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// viewProfile determines per-view edge emission and containment.
type viewProfile struct {
	relations   map[entities.Relation]bool
	containment bool
}

var allRelations = map[entities.Relation]bool{
	entities.RelationRequirement: true,
	entities.RelationReward:      true,
	entities.RelationContainer:   true,
	entities.RelationOwnership:   true,
	entities.RelationAssociation: true,
	entities.RelationTimeline:    true,
	entities.RelationEvidence:    true,
	entities.RelationChain:       true,
	entities.RelationStoryReveal: true,
	entities.RelationCharacter:   true,
}

var viewProfiles = map[ViewType]viewProfile{
	ViewFullGraph: {
		relations: allRelations,
	},
	ViewPuzzleFocus: {
		relations: map[entities.Relation]bool{
			entities.RelationRequirement: true,
			entities.RelationReward:      true,
			entities.RelationContainer:   true,
			entities.RelationChain:       true,
			entities.RelationStoryReveal: true,
		},
		containment: true,
	},
	ViewCharacterJourney: {
		relations: map[entities.Relation]bool{
			entities.RelationOwnership:   true,
			entities.RelationAssociation: true,
			entities.RelationTimeline:    true,
			entities.RelationCharacter:   true,
		},
	},
	ViewNodeConnections: {
		relations: allRelations,
	},
}
