package entities

// Relation discriminates the kind of relationship one edge or
// reference pair represents.
type Relation string

const (
	RelationRequirement Relation = "requirement"  // puzzle needs element
	RelationReward      Relation = "reward"       // puzzle rewards element
	RelationContainer   Relation = "containment"  // puzzle contains element
	RelationOwnership   Relation = "ownership"    // character owns element
	RelationAssociation Relation = "association"  // character associated with element
	RelationTimeline    Relation = "timeline"     // timeline event involves character
	RelationEvidence    Relation = "evidence"     // timeline event backed by memory/evidence element
	RelationChain       Relation = "chain"        // parent puzzle to sub-puzzle
	RelationStoryReveal Relation = "storyReveal"  // puzzle reveals timeline event
	RelationCharacter   Relation = "relationship" // character to character
)
