// Package synthesis derives the non-authoritative side of every known
// bidirectional reference pair across the four entity collections.
//
// Source data in Notion only maintains one direction of each pair (a
// puzzle lists the elements it requires; elements do not list the
// puzzles that require them). The synthesizer fills in the inverse
// fields so downstream consumers can walk relationships from either
// end, and reports every reference whose target is absent from the
// fetched collections.
package synthesis

import (
	"alnretool/domain/entities"
	pkgerrors "alnretool/pkg/errors"
)

// MissingEntity is a data-quality diagnostic: a reference whose target
// does not exist in the fetched collections. Dangling references are
// tracked, never silently dropped and never fatal.
type MissingEntity struct {
	ID           string            `json:"id"`
	ReferencedBy string            `json:"referencedBy"`
	Relation     entities.Relation `json:"type"`
}

// index holds pointer lookups into a dataset's backing slices so invert
// closures can mutate entities in place.
type index struct {
	characters map[string]*entities.Character
	elements   map[string]*entities.Element
	puzzles    map[string]*entities.Puzzle
	timeline   map[string]*entities.TimelineEvent
}

func buildIndex(ds *entities.Dataset) *index {
	idx := &index{
		characters: make(map[string]*entities.Character, len(ds.Characters)),
		elements:   make(map[string]*entities.Element, len(ds.Elements)),
		puzzles:    make(map[string]*entities.Puzzle, len(ds.Puzzles)),
		timeline:   make(map[string]*entities.TimelineEvent, len(ds.Timeline)),
	}
	for i := range ds.Characters {
		idx.characters[ds.Characters[i].ID] = &ds.Characters[i]
	}
	for i := range ds.Elements {
		idx.elements[ds.Elements[i].ID] = &ds.Elements[i]
	}
	for i := range ds.Puzzles {
		idx.puzzles[ds.Puzzles[i].ID] = &ds.Puzzles[i]
	}
	for i := range ds.Timeline {
		idx.timeline[ds.Timeline[i].ID] = &ds.Timeline[i]
	}
	return idx
}

// Synthesize computes the inverse relationship fields for all entity
// collections. It is pure: the input dataset is never mutated, and
// applying it to its own output yields identical inverse-field contents
// (appends deduplicate, so repeated runs do not accumulate IDs).
//
// Pair types are processed one at a time, each in a single pass over
// its authoritative side, so results are independent of entity order.
//
// Missing targets are returned as diagnostics; the only errors are
// structural (an entity without an identifier).
func Synthesize(ds entities.Dataset) (entities.Dataset, []MissingEntity, error) {
	if err := validate(ds); err != nil {
		return entities.Dataset{}, nil, err
	}

	out := ds.Clone()
	idx := buildIndex(&out)

	var missing []MissingEntity
	for _, pair := range pairs {
		for _, r := range pair.refs(&out) {
			if pair.invert(idx, r.SourceID, r.TargetID) {
				continue
			}
			missing = append(missing, MissingEntity{
				ID:           r.TargetID,
				ReferencedBy: r.SourceID,
				Relation:     pair.Relation,
			})
		}
	}

	return out, missing, nil
}

// validate enforces the structural contract: every entity carries a
// non-empty identifier.
func validate(ds entities.Dataset) error {
	for i, c := range ds.Characters {
		if c.ID == "" {
			return pkgerrors.NewValidationErrorf("character at index %d has no id", i)
		}
	}
	for i, e := range ds.Elements {
		if e.ID == "" {
			return pkgerrors.NewValidationErrorf("element at index %d has no id", i)
		}
	}
	for i, p := range ds.Puzzles {
		if p.ID == "" {
			return pkgerrors.NewValidationErrorf("puzzle at index %d has no id", i)
		}
	}
	for i, t := range ds.Timeline {
		if t.ID == "" {
			return pkgerrors.NewValidationErrorf("timeline event at index %d has no id", i)
		}
	}
	return nil
}

// Pairs returns the relationship pair table in a read-only form, for
// documentation endpoints and tests.
func Pairs() []PairInfo {
	out := make([]PairInfo, len(pairs))
	for i, p := range pairs {
		out[i] = PairInfo{
			Relation:    p.Relation,
			SourceType:  p.SourceType,
			SourceField: p.SourceField,
			TargetType:  p.TargetType,
			TargetField: p.TargetField,
		}
	}
	return out
}

// PairInfo describes one entry of the pair table.
type PairInfo struct {
	Relation    entities.Relation   `json:"relation"`
	SourceType  entities.EntityType `json:"sourceType"`
	SourceField string              `json:"sourceField"`
	TargetType  entities.EntityType `json:"targetType"`
	TargetField string              `json:"targetField"`
}
