package entities

// EntityType tags the four source entity kinds plus the synthetic
// placeholder kind produced by the graph builder.
type EntityType string

const (
	TypeCharacter EntityType = "character"
	TypeElement   EntityType = "element"
	TypePuzzle    EntityType = "puzzle"
	TypeTimeline  EntityType = "timeline"

	// TypeUnknown marks placeholder nodes standing in for referenced but
	// missing entities.
	TypeUnknown EntityType = "unknown"
)

// Character is a player or NPC in the game.
//
// Authoritative relationship fields are maintained in Notion; the fields
// marked "synthesized" are derived inverses and empty in raw source data.
type Character struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"` // "Player" or "NPC"
	Tier             string   `json:"tier"` // "Core", "Secondary", "Tertiary"
	Subgroup         string   `json:"subgroup,omitempty"`
	PrimaryAction    string   `json:"primaryAction,omitempty"`
	CharacterLogline string   `json:"characterLogline,omitempty"`
	ConnectionIDs    []string `json:"connections,omitempty"` // authoritative: character ↔ character links

	OwnedElementIDs      []string `json:"ownedElementIds,omitempty"`      // synthesized from Element.OwnerID
	AssociatedElementIDs []string `json:"associatedElementIds,omitempty"` // synthesized from Element.AssociatedCharacterIDs
	EventIDs             []string `json:"eventIds,omitempty"`             // synthesized from TimelineEvent.CharacterIDs
}

// Element is a prop, memory token, clue or other physical/narrative item.
type Element struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	BasicType              string   `json:"basicType,omitempty"` // "Prop", "Memory Token", ...
	Status                 string   `json:"status,omitempty"`    // content production status
	FirstAvailable         string   `json:"firstAvailable,omitempty"`
	OwnerID                string   `json:"ownerId,omitempty"`                // authoritative → Character.OwnedElementIDs
	ContainerPuzzleID      string   `json:"containerPuzzleId,omitempty"`      // authoritative → Puzzle.PuzzleElementIDs
	AssociatedCharacterIDs []string `json:"associatedCharacterIds,omitempty"` // authoritative → Character.AssociatedElementIDs

	RequiredForPuzzleIDs []string `json:"requiredForPuzzleIds,omitempty"` // synthesized from Puzzle.RequiredElementIDs
	RewardedByPuzzleIDs  []string `json:"rewardedByPuzzleIds,omitempty"`  // synthesized from Puzzle.RewardIDs
	TimelineEventIDs     []string `json:"timelineEventIds,omitempty"`     // synthesized from TimelineEvent.MemoryEvidenceIDs
}

// Puzzle is a gated interaction unlocked by elements and rewarding others.
type Puzzle struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Timing             []string `json:"timing,omitempty"` // acts, e.g. "Act 1"
	ParentItemID       string   `json:"parentItemId,omitempty"`       // authoritative → Puzzle.SubPuzzleIDs
	RequiredElementIDs []string `json:"requiredElementIds,omitempty"` // authoritative → Element.RequiredForPuzzleIDs
	RewardIDs          []string `json:"rewardIds,omitempty"`          // authoritative → Element.RewardedByPuzzleIDs
	StoryRevealIDs     []string `json:"storyRevealIds,omitempty"`     // timeline events surfaced on solve

	PuzzleElementIDs []string `json:"puzzleElementIds,omitempty"` // synthesized from Element.ContainerPuzzleID
	SubPuzzleIDs     []string `json:"subPuzzleIds,omitempty"`     // synthesized from Puzzle.ParentItemID
}

// TimelineEvent is one event in the murder-mystery backstory.
type TimelineEvent struct {
	ID                string   `json:"id"`
	Description       string   `json:"description"`
	Date              string   `json:"date,omitempty"`
	NarrativeBlock    string   `json:"narrativeBlock,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	CharacterIDs      []string `json:"characterIds,omitempty"`      // authoritative → Character.EventIDs
	MemoryEvidenceIDs []string `json:"memoryEvidenceIds,omitempty"` // authoritative → Element.TimelineEventIDs
}

// Dataset holds the four fully-fetched entity collections. Partial or
// still-paginating collections are not valid synthesis input.
type Dataset struct {
	Characters []Character     `json:"characters"`
	Elements   []Element       `json:"elements"`
	Puzzles    []Puzzle        `json:"puzzles"`
	Timeline   []TimelineEvent `json:"timeline"`
}

// Label returns the display label of an entity by type. The zero value
// for unknown types is the empty string.
func (c Character) Label() string     { return c.Name }
func (e Element) Label() string       { return e.Name }
func (p Puzzle) Label() string        { return p.Name }
func (t TimelineEvent) Label() string { return t.Description }

// Clone returns a deep copy; relationship slices are copied so synthesis
// never aliases the caller's data.
func (c Character) Clone() Character {
	out := c
	out.ConnectionIDs = cloneIDs(c.ConnectionIDs)
	out.OwnedElementIDs = cloneIDs(c.OwnedElementIDs)
	out.AssociatedElementIDs = cloneIDs(c.AssociatedElementIDs)
	out.EventIDs = cloneIDs(c.EventIDs)
	return out
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	out.AssociatedCharacterIDs = cloneIDs(e.AssociatedCharacterIDs)
	out.RequiredForPuzzleIDs = cloneIDs(e.RequiredForPuzzleIDs)
	out.RewardedByPuzzleIDs = cloneIDs(e.RewardedByPuzzleIDs)
	out.TimelineEventIDs = cloneIDs(e.TimelineEventIDs)
	return out
}

// Clone returns a deep copy of the puzzle.
func (p Puzzle) Clone() Puzzle {
	out := p
	out.Timing = cloneIDs(p.Timing)
	out.RequiredElementIDs = cloneIDs(p.RequiredElementIDs)
	out.RewardIDs = cloneIDs(p.RewardIDs)
	out.StoryRevealIDs = cloneIDs(p.StoryRevealIDs)
	out.PuzzleElementIDs = cloneIDs(p.PuzzleElementIDs)
	out.SubPuzzleIDs = cloneIDs(p.SubPuzzleIDs)
	return out
}

// Clone returns a deep copy of the timeline event.
func (t TimelineEvent) Clone() TimelineEvent {
	out := t
	out.CharacterIDs = cloneIDs(t.CharacterIDs)
	out.MemoryEvidenceIDs = cloneIDs(t.MemoryEvidenceIDs)
	return out
}

// Clone returns a deep copy of the whole dataset.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Characters: make([]Character, len(d.Characters)),
		Elements:   make([]Element, len(d.Elements)),
		Puzzles:    make([]Puzzle, len(d.Puzzles)),
		Timeline:   make([]TimelineEvent, len(d.Timeline)),
	}
	for i, c := range d.Characters {
		out.Characters[i] = c.Clone()
	}
	for i, e := range d.Elements {
		out.Elements[i] = e.Clone()
	}
	for i, p := range d.Puzzles {
		out.Puzzles[i] = p.Clone()
	}
	for i, t := range d.Timeline {
		out.Timeline[i] = t.Clone()
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
