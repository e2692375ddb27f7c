package notion

import (
	"alnretool/domain/entities"
)

// The entity transform layer: raw Notion pages become typed entities
// with consistent field shapes. Property names follow the four game
// databases; a page missing a property transforms to zero values
// rather than failing.

// ToCharacter maps a page from the characters database.
func ToCharacter(p Page) entities.Character {
	return entities.Character{
		ID:               p.ID,
		Name:             p.TitleOf("Name"),
		Type:             p.SelectOf("Type"),
		Tier:             p.SelectOf("Tier"),
		Subgroup:         p.SelectOf("Subgroup"),
		PrimaryAction:    p.TextOf("Primary Action"),
		CharacterLogline: p.TextOf("Character Logline"),
		ConnectionIDs:    p.RelationOf("Connections"),
	}
}

// ToElement maps a page from the elements database.
func ToElement(p Page) entities.Element {
	return entities.Element{
		ID:                     p.ID,
		Name:                   p.TitleOf("Name"),
		BasicType:              p.SelectOf("Basic Type"),
		Status:                 p.StatusOf("Status"),
		FirstAvailable:         p.SelectOf("First Available"),
		OwnerID:                p.FirstRelationOf("Owner"),
		ContainerPuzzleID:      p.FirstRelationOf("Container Puzzle"),
		AssociatedCharacterIDs: p.RelationOf("Associated Characters"),
	}
}

// ToPuzzle maps a page from the puzzles database.
func ToPuzzle(p Page) entities.Puzzle {
	return entities.Puzzle{
		ID:                 p.ID,
		Name:               p.TitleOf("Puzzle"),
		Timing:             p.MultiSelectOf("Timing"),
		ParentItemID:       p.FirstRelationOf("Parent Item"),
		RequiredElementIDs: p.RelationOf("Required Elements"),
		RewardIDs:          p.RelationOf("Rewards"),
		StoryRevealIDs:     p.RelationOf("Story Reveals"),
	}
}

// ToTimelineEvent maps a page from the timeline database.
func ToTimelineEvent(p Page) entities.TimelineEvent {
	return entities.TimelineEvent{
		ID:                p.ID,
		Description:       p.TitleOf("Description"),
		Date:              p.DateOf("Date"),
		NarrativeBlock:    p.SelectOf("Narrative Block"),
		Notes:             p.TextOf("Notes"),
		CharacterIDs:      p.RelationOf("Characters Involved"),
		MemoryEvidenceIDs: p.RelationOf("Memory Evidence"),
	}
}
