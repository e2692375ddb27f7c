package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnretool/domain/entities"
	"alnretool/domain/synthesis"
	pkgerrors "alnretool/pkg/errors"
)

// synthesized runs the dataset through synthesis; builder tests operate
// on synthesized input, matching the production pipeline.
func synthesized(t *testing.T, ds entities.Dataset) entities.Dataset {
	t.Helper()
	out, _, err := synthesis.Synthesize(ds)
	require.NoError(t, err)
	return out
}

func nodeByID(g *Graph, id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func nodeIndexOf(t *testing.T, g *Graph, id string) int {
	t.Helper()
	for i, n := range g.Nodes {
		if n.ID == id {
			return i
		}
	}
	t.Fatalf("node %s not found", id)
	return -1
}

func TestBuild_UnknownViewRejected(t *testing.T) {
	_, err := Build(entities.Dataset{}, Config{View: "sideways"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestBuild_EmptyViewDefaultsToFullGraph(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{{ID: "C1", Name: "Alex"}},
	})

	g, err := Build(ds, Config{IncludeOrphans: true})
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.NotEmpty(t, g.Metadata.BuildID)
}

func TestBuild_PlaceholderForMissingReference(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Puzzles: []entities.Puzzle{
			{ID: "P1", Name: "Locked drawer", RequiredElementIDs: []string{"E_missing"}},
		},
	})

	g, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)

	placeholder, ok := nodeByID(g, "E_missing")
	require.True(t, ok)
	assert.Equal(t, entities.TypeUnknown, placeholder.Type)
	assert.True(t, placeholder.Data.Metadata.Placeholder)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "P1", g.Edges[0].Source)
	assert.Equal(t, "E_missing", g.Edges[0].Target)
	assert.Equal(t, entities.RelationRequirement, g.Edges[0].Data.RelationshipType)

	assert.Equal(t, 1, g.Metadata.PlaceholderNodes)
	require.Len(t, g.Metadata.MissingEntities, 1)
	assert.Equal(t, "E_missing", g.Metadata.MissingEntities[0].ID)
}

func TestBuild_PlaceholderDeduplicated(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Puzzles: []entities.Puzzle{
			{ID: "P1", RequiredElementIDs: []string{"E_missing"}},
			{ID: "P2", RequiredElementIDs: []string{"E_missing"}},
		},
	})

	g, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Metadata.PlaceholderNodes, "one node per missing ID")
	assert.Len(t, g.Metadata.MissingEntities, 2, "one diagnostic per reference")
	assert.Len(t, g.Edges, 2)
}

func TestBuild_ContainmentAndOrdering(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Puzzles: []entities.Puzzle{
			{ID: "P1", Name: "Jewelry box", RequiredElementIDs: []string{"E1"}},
		},
		Elements: []entities.Element{
			{ID: "E1", Name: "Small key", ContainerPuzzleID: "P1"},
			{ID: "E2", Name: "Velvet lining", ContainerPuzzleID: "P1"},
		},
	})

	g, err := Build(ds, Config{View: ViewPuzzleFocus, IncludeOrphans: true})
	require.NoError(t, err)

	e1, ok := nodeByID(g, "E1")
	require.True(t, ok)
	e2, ok := nodeByID(g, "E2")
	require.True(t, ok)
	p1, ok := nodeByID(g, "P1")
	require.True(t, ok)

	assert.Equal(t, "P1", e1.ParentID)
	assert.Equal(t, "P1", e2.ParentID)
	assert.True(t, p1.Data.Metadata.Container)

	pi := nodeIndexOf(t, g, "P1")
	assert.Less(t, pi, nodeIndexOf(t, g, "E1"))
	assert.Less(t, pi, nodeIndexOf(t, g, "E2"))
}

func TestBuild_ParentBeforeChildInvariant(t *testing.T) {
	// Deep chain: grandparent puzzle contains elements, sub-puzzles hang
	// off it. Every parent must precede all of its children.
	ds := synthesized(t, entities.Dataset{
		Puzzles: []entities.Puzzle{
			{ID: "P3", ParentItemID: "P2"},
			{ID: "P2", ParentItemID: "P1"},
			{ID: "P1"},
		},
		Elements: []entities.Element{
			{ID: "E1", ContainerPuzzleID: "P2"},
		},
	})

	g, err := Build(ds, Config{View: ViewPuzzleFocus, IncludeOrphans: true})
	require.NoError(t, err)

	position := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		position[n.ID] = i
	}
	for _, n := range g.Nodes {
		if n.ParentID == "" {
			continue
		}
		pp, ok := position[n.ParentID]
		require.True(t, ok, "node %s has parent %s not present in output", n.ID, n.ParentID)
		assert.Less(t, pp, position[n.ID], "parent %s must precede child %s", n.ParentID, n.ID)
	}
}

func TestBuild_NoOrphanedParentRefs(t *testing.T) {
	// E1's container puzzle is excluded from the view's node set by
	// entity type selection; its parent reference must be stripped.
	ds := synthesized(t, entities.Dataset{
		Puzzles:  []entities.Puzzle{{ID: "P1"}},
		Elements: []entities.Element{{ID: "E1", ContainerPuzzleID: "P1"}},
	})

	g, err := Build(ds, Config{
		View:           ViewPuzzleFocus,
		EntityTypes:    []entities.EntityType{entities.TypeElement},
		IncludeOrphans: true,
	})
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, n := range g.Nodes {
		if n.ParentID != "" {
			assert.True(t, ids[n.ParentID], "dangling parent ref on %s", n.ID)
		}
	}
}

func TestBuild_OrphanDropping(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{
			{ID: "C1", Name: "Alex", ConnectionIDs: []string{"C2"}},
			{ID: "C2", Name: "Morgan"},
			{ID: "C3", Name: "Loner"},
		},
	})

	g, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)

	_, hasLoner := nodeByID(g, "C3")
	assert.False(t, hasLoner)
	assert.Equal(t, 2, g.Metadata.TotalNodes)

	g, err = Build(ds, Config{View: ViewFullGraph, IncludeOrphans: true})
	require.NoError(t, err)
	_, hasLoner = nodeByID(g, "C3")
	assert.True(t, hasLoner)
}

func TestBuild_SymmetricConnectionSingleEdge(t *testing.T) {
	// Synthesis mirrors the connection onto both characters; the builder
	// must still emit exactly one edge for the pair.
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{
			{ID: "C1", ConnectionIDs: []string{"C2"}},
			{ID: "C2"},
		},
	})

	g, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)
	assert.Len(t, g.Edges, 1)
}

func TestBuild_ViewExcludedTargetSkippedNotPlaceheld(t *testing.T) {
	// T1 exists in the dataset but timeline nodes are excluded from the
	// character-journey entity selection: no placeholder, no edge.
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{{ID: "C1"}},
		Timeline: []entities.TimelineEvent{
			{ID: "T1", CharacterIDs: []string{"C1"}},
		},
	})

	g, err := Build(ds, Config{
		View:           ViewCharacterJourney,
		EntityTypes:    []entities.EntityType{entities.TypeCharacter},
		IncludeOrphans: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, g.Metadata.PlaceholderNodes)
	assert.Empty(t, g.Edges)
}

func TestBuild_NodeConnectionsNeighborhood(t *testing.T) {
	// C1 - C2 - C3 - C4 chain; depth 2 around C1 reaches C2 and C3.
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{
			{ID: "C1", ConnectionIDs: []string{"C2"}},
			{ID: "C2", ConnectionIDs: []string{"C3"}},
			{ID: "C3", ConnectionIDs: []string{"C4"}},
			{ID: "C4"},
		},
	})

	g, err := Build(ds, Config{View: ViewNodeConnections, RootID: "C1", MaxDepth: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Metadata.TotalNodes)
	_, hasC4 := nodeByID(g, "C4")
	assert.False(t, hasC4)

	root, ok := nodeByID(g, "C1")
	require.True(t, ok)
	assert.True(t, root.Data.Metadata.IsFocused)

	c2, _ := nodeByID(g, "C2")
	assert.True(t, c2.Data.Metadata.IsConnected)
}

func TestBuild_NodeConnectionsRequiresRoot(t *testing.T) {
	_, err := Build(entities.Dataset{}, Config{View: ViewNodeConnections})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestBuild_NodeConnectionsUnknownRoot(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{{ID: "C1"}},
	})

	_, err := Build(ds, Config{View: ViewNodeConnections, RootID: "ghost"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestBuild_DeterministicOutput(t *testing.T) {
	ds := synthesized(t, entities.Dataset{
		Characters: []entities.Character{
			{ID: "C1", ConnectionIDs: []string{"C2"}},
			{ID: "C2"},
		},
		Puzzles:  []entities.Puzzle{{ID: "P1", RequiredElementIDs: []string{"E1"}}},
		Elements: []entities.Element{{ID: "E1", OwnerID: "C1"}},
	})

	a, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)
	b, err := Build(ds, Config{View: ViewFullGraph})
	require.NoError(t, err)

	assert.Equal(t, a.Nodes, b.Nodes)
	assert.Equal(t, a.Edges, b.Edges)
}
