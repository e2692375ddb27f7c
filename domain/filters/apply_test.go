package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnretool/domain/entities"
	"alnretool/domain/graph"
)

func testGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "C1", Type: entities.TypeCharacter, Data: graph.NodeData{Label: "Alex the locksmith"}},
			{ID: "C2", Type: entities.TypeCharacter, Data: graph.NodeData{Label: "Morgan"}},
			{ID: "P1", Type: entities.TypePuzzle, Data: graph.NodeData{Label: "Open the safe"}},
			{ID: "P2", Type: entities.TypePuzzle, Data: graph.NodeData{Label: "Decode the letter"}},
			{ID: "E1", Type: entities.TypeElement, Data: graph.NodeData{Label: "Safe key", Metadata: graph.NodeMetadata{Status: "Done"}}},
			{ID: "E2", Type: entities.TypeElement, Data: graph.NodeData{Label: "Cipher wheel", Metadata: graph.NodeMetadata{Status: "Draft"}}},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "C1", Target: "C2", Data: graph.EdgeData{RelationshipType: entities.RelationCharacter}},
			{ID: "e2", Source: "P1", Target: "E1", Data: graph.EdgeData{RelationshipType: entities.RelationRequirement}},
			{ID: "e3", Source: "P2", Target: "E2", Data: graph.EdgeData{RelationshipType: entities.RelationRequirement}},
		},
	}
}

func applied(t *testing.T, f ClientSideFilters) *graph.Graph {
	t.Helper()
	g := Apply(testGraph(), f)
	require.NotNil(t, g)
	return g
}

func metadataOf(t *testing.T, g *graph.Graph, id string) graph.NodeMetadata {
	t.Helper()
	for _, n := range g.Nodes {
		if n.ID == id {
			return n.Data.Metadata
		}
	}
	t.Fatalf("node %s not found", id)
	return graph.NodeMetadata{}
}

func TestApply_NeverRemovesNodes(t *testing.T) {
	g := applied(t, ClientSideFilters{Search: "safe", CompletionStatus: "completed"})
	assert.Len(t, g.Nodes, 6)
	assert.Len(t, g.Edges, 3)
}

func TestApply_SearchMarksMatches(t *testing.T) {
	g := applied(t, ClientSideFilters{Search: "SAFE"})

	assert.True(t, metadataOf(t, g, "P1").SearchMatch)
	assert.True(t, metadataOf(t, g, "E1").SearchMatch)
	assert.False(t, metadataOf(t, g, "C2").SearchMatch)
}

func TestApply_SelectionFocusAndConnection(t *testing.T) {
	g := applied(t, ClientSideFilters{SelectedCharacterID: "C1"})

	assert.True(t, metadataOf(t, g, "C1").IsFocused)
	assert.True(t, metadataOf(t, g, "C2").IsConnected)
	assert.False(t, metadataOf(t, g, "P1").IsConnected)
}

func TestApply_CompletionStatus(t *testing.T) {
	// P1's only required element is Done; P2's is Draft.
	g := applied(t, ClientSideFilters{CompletionStatus: "completed"})
	assert.False(t, metadataOf(t, g, "P1").IsFiltered)
	assert.True(t, metadataOf(t, g, "P2").IsFiltered)

	g = applied(t, ClientSideFilters{CompletionStatus: "incomplete"})
	assert.True(t, metadataOf(t, g, "P1").IsFiltered)
	assert.False(t, metadataOf(t, g, "P2").IsFiltered)

	// Elements never get completion-filtered.
	assert.False(t, metadataOf(t, g, "E1").IsFiltered)
}

func TestApply_MixedStatusPuzzleIncomplete(t *testing.T) {
	g := testGraph()
	g.Edges = append(g.Edges, graph.Edge{
		ID: "e4", Source: "P1", Target: "E2",
		Data: graph.EdgeData{RelationshipType: entities.RelationReward},
	})

	out := Apply(g, ClientSideFilters{CompletionStatus: "completed"})
	assert.True(t, metadataOf(t, out, "P1").IsFiltered,
		"a puzzle with any unfinished element is incomplete")
}

func TestApply_NoFiltersReturnsUntouchedCopy(t *testing.T) {
	src := testGraph()
	out := Apply(src, ClientSideFilters{})

	assert.Equal(t, src.Nodes, out.Nodes)

	// Mutating the copy must not leak into the source.
	out.Nodes[0].Data.Metadata.IsFocused = true
	assert.False(t, src.Nodes[0].Data.Metadata.IsFocused)
}
