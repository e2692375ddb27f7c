package cluster

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnretool/domain/entities"
	"alnretool/domain/graph"
)

func puzzleNode(id string) graph.Node {
	return graph.Node{ID: id, Type: entities.TypePuzzle, Data: graph.NodeData{Label: id}}
}

func chainEdge(parent, child string) graph.Edge {
	return graph.Edge{
		ID: "e::" + parent + "::" + child, Source: parent, Target: child,
		Data: graph.EdgeData{RelationshipType: entities.RelationChain},
	}
}

func singleCluster(t *testing.T, clusters map[string]Cluster) Cluster {
	t.Helper()
	require.Len(t, clusters, 1)
	for _, c := range clusters {
		return c
	}
	return Cluster{}
}

func TestComputeClusters_PuzzleChainScenario(t *testing.T) {
	nodes := []graph.Node{puzzleNode("P1"), puzzleNode("P2"), puzzleNode("P3")}
	edges := []graph.Edge{chainEdge("P1", "P2"), chainEdge("P2", "P3")}

	clusters := ComputeClusters(nodes, edges, Rules{PuzzleChains: true, MinClusterSize: 3})
	c := singleCluster(t, clusters)
	assert.Equal(t, RulePuzzleChain, c.Rule)
	assert.ElementsMatch(t, []string{"P1", "P2", "P3"}, c.ChildIDs)

	// Raising the minimum above the chain length removes it.
	clusters = ComputeClusters(nodes, edges, Rules{PuzzleChains: true, MinClusterSize: 4})
	assert.Empty(t, clusters)
}

func TestComputeClusters_SharedElementUnlockLink(t *testing.T) {
	// P1 rewards E1; P2 and P3 require E1. All three form one chain even
	// without direct parent/sub-puzzle edges.
	nodes := []graph.Node{
		puzzleNode("P1"), puzzleNode("P2"), puzzleNode("P3"),
		{ID: "E1", Type: entities.TypeElement},
	}
	edges := []graph.Edge{
		{ID: "r1", Source: "P1", Target: "E1", Data: graph.EdgeData{RelationshipType: entities.RelationReward}},
		{ID: "q1", Source: "P2", Target: "E1", Data: graph.EdgeData{RelationshipType: entities.RelationRequirement}},
		{ID: "q2", Source: "P3", Target: "E1", Data: graph.EdgeData{RelationshipType: entities.RelationRequirement}},
	}

	clusters := ComputeClusters(nodes, edges, Rules{PuzzleChains: true})
	c := singleCluster(t, clusters)
	assert.ElementsMatch(t, []string{"P1", "P2", "P3"}, c.ChildIDs)
	assert.NotContains(t, c.ChildIDs, "E1", "elements are links, not members")
}

func TestComputeClusters_CharacterSubgroups(t *testing.T) {
	nodes := []graph.Node{
		{ID: "C1", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
		{ID: "C2", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
		{ID: "C3", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
		{ID: "C4", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Staff"}}},
		{ID: "C5", Type: entities.TypeCharacter},
	}

	clusters := ComputeClusters(nodes, nil, Rules{CharacterGroups: true, MinClusterSize: 3})
	c := singleCluster(t, clusters)
	assert.Equal(t, RuleCharacterGroup, c.Rule)
	assert.Equal(t, "Family", c.Label)
	assert.ElementsMatch(t, []string{"C1", "C2", "C3"}, c.ChildIDs)
}

func TestComputeClusters_TimelineNarrativeBlocks(t *testing.T) {
	nodes := []graph.Node{
		{ID: "T1", Type: entities.TypeTimeline, Data: graph.NodeData{Metadata: graph.NodeMetadata{NarrativeBlock: "The last evening"}}},
		{ID: "T2", Type: entities.TypeTimeline, Data: graph.NodeData{Metadata: graph.NodeMetadata{NarrativeBlock: "The last evening"}}},
	}

	clusters := ComputeClusters(nodes, nil, Rules{TimelineSequences: true, MinClusterSize: 2})
	c := singleCluster(t, clusters)
	assert.Equal(t, RuleTimelineSequence, c.Rule)
	assert.Equal(t, "The last evening", c.Label)
}

func TestComputeClusters_StableIDs(t *testing.T) {
	nodes := []graph.Node{puzzleNode("P1"), puzzleNode("P2"), puzzleNode("P3")}
	edges := []graph.Edge{chainEdge("P1", "P2"), chainEdge("P2", "P3")}

	a := ComputeClusters(nodes, edges, Rules{PuzzleChains: true})
	// Same membership discovered from a different node order.
	reversed := []graph.Node{puzzleNode("P3"), puzzleNode("P2"), puzzleNode("P1")}
	b := ComputeClusters(reversed, edges, Rules{PuzzleChains: true})

	assert.Equal(t, keys(a), keys(b), "identical membership must yield identical IDs")
}

func TestComputeClusters_RuleTogglesDoNotChangeOtherIDs(t *testing.T) {
	nodes := []graph.Node{
		puzzleNode("P1"), puzzleNode("P2"), puzzleNode("P3"),
		{ID: "C1", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
		{ID: "C2", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
		{ID: "C3", Type: entities.TypeCharacter, Data: graph.NodeData{Metadata: graph.NodeMetadata{Subgroup: "Family"}}},
	}
	edges := []graph.Edge{chainEdge("P1", "P2"), chainEdge("P2", "P3")}

	chainsOnly := ComputeClusters(nodes, edges, Rules{PuzzleChains: true})
	both := ComputeClusters(nodes, edges, Rules{PuzzleChains: true, CharacterGroups: true})

	for id := range chainsOnly {
		_, present := both[id]
		assert.True(t, present, "enabling another rule must not change chain IDs")
	}
	assert.Len(t, both, 2)
}

func TestComputeClusters_DefaultMinSize(t *testing.T) {
	nodes := []graph.Node{puzzleNode("P1"), puzzleNode("P2")}
	edges := []graph.Edge{chainEdge("P1", "P2")}

	clusters := ComputeClusters(nodes, edges, Rules{PuzzleChains: true})
	assert.Empty(t, clusters, "two-puzzle chain is below the default minimum of three")
}

func keys(m map[string]Cluster) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
