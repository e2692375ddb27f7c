package filters

// FilterState is the unified filter object received from the client.
// It is partitioned into a server-pushable subset (compiled into
// upstream query filters) and a client-only subset (evaluated against
// the built graph).
type FilterState struct {
	Search     string           `json:"search,omitempty"`
	Characters CharacterFilters `json:"characterFilters"`
	Puzzles    PuzzleFilters    `json:"puzzleFilters"`
	Content    ContentFilters   `json:"contentFilters"`
}

// CharacterFilters holds character-scoped filter inputs.
type CharacterFilters struct {
	SelectedTiers       map[string]bool `json:"selectedTiers,omitempty"`
	CharacterType       string          `json:"characterType,omitempty"` // "all", "Player", "NPC"
	SelectedCharacterID string          `json:"selectedCharacterId,omitempty"`
	HighlightShared     bool            `json:"highlightShared,omitempty"`
}

// PuzzleFilters holds puzzle-scoped filter inputs.
type PuzzleFilters struct {
	SelectedActs map[string]bool `json:"selectedActs,omitempty"`
	// CompletionStatus needs reward/requirement element statuses, a
	// cross-entity computation the upstream API cannot express.
	CompletionStatus string `json:"completionStatus,omitempty"` // "all", "completed", "incomplete"
}

// ContentFilters holds element-scoped filter inputs.
type ContentFilters struct {
	ContentStatus     map[string]bool `json:"contentStatus,omitempty"`
	ElementBasicTypes map[string]bool `json:"elementBasicTypes,omitempty"`
	HasIssues         *bool           `json:"hasIssues,omitempty"`
	LastEditedRange   string          `json:"lastEditedRange,omitempty"` // "week", "month", "all"
}

// ServerSideFilters is the subset the upstream data source can filter
// natively, one sub-object per entity type.
type ServerSideFilters struct {
	Characters CharacterServerFilters `json:"characters"`
	Puzzles    PuzzleServerFilters    `json:"puzzles"`
	Elements   ElementServerFilters   `json:"elements"`
}

// CharacterServerFilters are the server-pushable character predicates.
type CharacterServerFilters struct {
	Tiers []string `json:"tiers,omitempty"`
	Type  string   `json:"type,omitempty"`
}

// PuzzleServerFilters are the server-pushable puzzle predicates.
type PuzzleServerFilters struct {
	Acts []string `json:"acts,omitempty"`
}

// ElementServerFilters are the server-pushable element predicates.
type ElementServerFilters struct {
	Status     []string `json:"status,omitempty"`
	BasicTypes []string `json:"basicTypes,omitempty"`
	LastEdited string   `json:"lastEdited,omitempty"`
}

// ClientSideFilters is everything requiring derived computation against
// the synthesized graph: free-text search, completion status, selection
// highlighting.
type ClientSideFilters struct {
	Search              string `json:"search,omitempty"`
	CompletionStatus    string `json:"completionStatus,omitempty"`
	SelectedCharacterID string `json:"selectedCharacterId,omitempty"`
	HighlightShared     bool   `json:"highlightShared,omitempty"`
	HasIssues           *bool  `json:"hasIssues,omitempty"`
}
