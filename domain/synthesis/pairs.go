package synthesis

import (
	"alnretool/domain/entities"
)

// ref is one authoritative reference instance: source entity → target ID.
type ref struct {
	SourceID string
	TargetID string
}

// pairSpec describes one bidirectional reference pair. The authoritative
// side is enumerated by refs; invert writes the derived side. Every pair
// the system understands appears in the pairs table below.
type pairSpec struct {
	Relation    entities.Relation
	SourceType  entities.EntityType
	SourceField string
	TargetType  entities.EntityType
	TargetField string

	refs func(ds *entities.Dataset) []ref
	// invert appends sourceID to the target's inverse field, deduplicating.
	// Returns false when the target does not exist in the collection.
	invert func(idx *index, sourceID, targetID string) bool
}

// pairs is the closed table of every known reference pair.
var pairs = []pairSpec{
	{
		Relation:    entities.RelationRequirement,
		SourceType:  entities.TypePuzzle,
		SourceField: "requiredElementIds",
		TargetType:  entities.TypeElement,
		TargetField: "requiredForPuzzleIds",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Puzzles, func(p entities.Puzzle) (string, []string) {
				return p.ID, p.RequiredElementIDs
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			e, ok := idx.elements[targetID]
			if !ok {
				return false
			}
			e.RequiredForPuzzleIDs = appendUnique(e.RequiredForPuzzleIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationReward,
		SourceType:  entities.TypePuzzle,
		SourceField: "rewardIds",
		TargetType:  entities.TypeElement,
		TargetField: "rewardedByPuzzleIds",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Puzzles, func(p entities.Puzzle) (string, []string) {
				return p.ID, p.RewardIDs
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			e, ok := idx.elements[targetID]
			if !ok {
				return false
			}
			e.RewardedByPuzzleIDs = appendUnique(e.RewardedByPuzzleIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationContainer,
		SourceType:  entities.TypeElement,
		SourceField: "containerPuzzleId",
		TargetType:  entities.TypePuzzle,
		TargetField: "puzzleElementIds",
		refs: func(ds *entities.Dataset) []ref {
			return scalarRefs(ds.Elements, func(e entities.Element) (string, string) {
				return e.ID, e.ContainerPuzzleID
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			p, ok := idx.puzzles[targetID]
			if !ok {
				return false
			}
			p.PuzzleElementIDs = appendUnique(p.PuzzleElementIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationOwnership,
		SourceType:  entities.TypeElement,
		SourceField: "ownerId",
		TargetType:  entities.TypeCharacter,
		TargetField: "ownedElementIds",
		refs: func(ds *entities.Dataset) []ref {
			return scalarRefs(ds.Elements, func(e entities.Element) (string, string) {
				return e.ID, e.OwnerID
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			c, ok := idx.characters[targetID]
			if !ok {
				return false
			}
			c.OwnedElementIDs = appendUnique(c.OwnedElementIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationAssociation,
		SourceType:  entities.TypeElement,
		SourceField: "associatedCharacterIds",
		TargetType:  entities.TypeCharacter,
		TargetField: "associatedElementIds",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Elements, func(e entities.Element) (string, []string) {
				return e.ID, e.AssociatedCharacterIDs
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			c, ok := idx.characters[targetID]
			if !ok {
				return false
			}
			c.AssociatedElementIDs = appendUnique(c.AssociatedElementIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationTimeline,
		SourceType:  entities.TypeTimeline,
		SourceField: "characterIds",
		TargetType:  entities.TypeCharacter,
		TargetField: "eventIds",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Timeline, func(t entities.TimelineEvent) (string, []string) {
				return t.ID, t.CharacterIDs
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			c, ok := idx.characters[targetID]
			if !ok {
				return false
			}
			c.EventIDs = appendUnique(c.EventIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationEvidence,
		SourceType:  entities.TypeTimeline,
		SourceField: "memoryEvidenceIds",
		TargetType:  entities.TypeElement,
		TargetField: "timelineEventIds",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Timeline, func(t entities.TimelineEvent) (string, []string) {
				return t.ID, t.MemoryEvidenceIDs
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			e, ok := idx.elements[targetID]
			if !ok {
				return false
			}
			e.TimelineEventIDs = appendUnique(e.TimelineEventIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationChain,
		SourceType:  entities.TypePuzzle,
		SourceField: "parentItemId",
		TargetType:  entities.TypePuzzle,
		TargetField: "subPuzzleIds",
		refs: func(ds *entities.Dataset) []ref {
			return scalarRefs(ds.Puzzles, func(p entities.Puzzle) (string, string) {
				return p.ID, p.ParentItemID
			})
		},
		invert: func(idx *index, sourceID, targetID string) bool {
			p, ok := idx.puzzles[targetID]
			if !ok {
				return false
			}
			p.SubPuzzleIDs = appendUnique(p.SubPuzzleIDs, sourceID)
			return true
		},
	},
	{
		Relation:    entities.RelationCharacter,
		SourceType:  entities.TypeCharacter,
		SourceField: "connections",
		TargetType:  entities.TypeCharacter,
		TargetField: "connections",
		refs: func(ds *entities.Dataset) []ref {
			return listRefs(ds.Characters, func(c entities.Character) (string, []string) {
				return c.ID, c.ConnectionIDs
			})
		},
		// Character links are symmetric: the inverse of a connection is a
		// connection back. Self-loops are appended like any other reference.
		invert: func(idx *index, sourceID, targetID string) bool {
			c, ok := idx.characters[targetID]
			if !ok {
				return false
			}
			c.ConnectionIDs = appendUnique(c.ConnectionIDs, sourceID)
			return true
		},
	},
}

// listRefs enumerates references from a list-valued authoritative field.
func listRefs[E any](items []E, get func(E) (string, []string)) []ref {
	var out []ref
	for _, item := range items {
		id, targets := get(item)
		for _, target := range targets {
			out = append(out, ref{SourceID: id, TargetID: target})
		}
	}
	return out
}

// scalarRefs enumerates references from a single-valued authoritative
// field, skipping empty values.
func scalarRefs[E any](items []E, get func(E) (string, string)) []ref {
	var out []ref
	for _, item := range items {
		id, target := get(item)
		if target == "" {
			continue
		}
		out = append(out, ref{SourceID: id, TargetID: target})
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
