// Package cluster groups graph nodes into derived, non-persistent
// clusters by structural rules, and tracks expand/collapse state keyed
// by stable cluster identifiers.
package cluster

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"alnretool/domain/entities"
	"alnretool/domain/graph"
)

// RuleType names one grouping rule.
type RuleType string

const (
	RulePuzzleChain      RuleType = "puzzle-chain"
	RuleCharacterGroup   RuleType = "character-group"
	RuleTimelineSequence RuleType = "timeline-sequence"
)

// DefaultMinClusterSize applies when rules leave the minimum unset.
const DefaultMinClusterSize = 3

// Rules selects which grouping rules contribute clusters. Each rule is
// independently toggleable.
type Rules struct {
	PuzzleChains      bool `json:"puzzleChains"`
	CharacterGroups   bool `json:"characterGroups"`
	TimelineSequences bool `json:"timelineSequences"`
	MinClusterSize    int  `json:"minClusterSize"`
}

// Cluster is a derived grouping of existing graph nodes. It carries no
// expand/collapse state; that lives in the state machine, keyed by the
// cluster ID.
type Cluster struct {
	ID       string   `json:"id"`
	Rule     RuleType `json:"rule"`
	Label    string   `json:"label"`
	ChildIDs []string `json:"childIds"`
}

// ComputeClusters derives clusters from the built graph. It is pure and
// deterministic: identical graph and rules yield identical cluster IDs
// and membership, and toggling one rule never changes the IDs another
// rule produces, because each ID is derived from the rule type and the
// member set alone.
func ComputeClusters(nodes []graph.Node, edges []graph.Edge, rules Rules) map[string]Cluster {
	minSize := rules.MinClusterSize
	if minSize <= 0 {
		minSize = DefaultMinClusterSize
	}

	out := make(map[string]Cluster)

	if rules.PuzzleChains {
		for _, chain := range puzzleChains(nodes, edges) {
			addCluster(out, RulePuzzleChain, fmt.Sprintf("Puzzle chain (%d)", len(chain)), chain, minSize)
		}
	}
	if rules.CharacterGroups {
		for label, members := range groupByMetadata(nodes, entities.TypeCharacter, func(m graph.NodeMetadata) string { return m.Subgroup }) {
			addCluster(out, RuleCharacterGroup, label, members, minSize)
		}
	}
	if rules.TimelineSequences {
		for label, members := range groupByMetadata(nodes, entities.TypeTimeline, func(m graph.NodeMetadata) string { return m.NarrativeBlock }) {
			addCluster(out, RuleTimelineSequence, label, members, minSize)
		}
	}

	return out
}

func addCluster(out map[string]Cluster, rule RuleType, label string, members []string, minSize int) {
	if len(members) < minSize {
		return
	}
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)

	id := clusterID(rule, sorted)
	out[id] = Cluster{
		ID:       id,
		Rule:     rule,
		Label:    label,
		ChildIDs: sorted,
	}
}

// clusterID derives a stable, reproducible identifier from the rule and
// the sorted member set. Content-derived IDs keep separately-persisted
// expand/collapse state valid across recomputation.
func clusterID(rule RuleType, sortedMembers []string) string {
	sum := sha1.Sum([]byte(strings.Join(sortedMembers, "\n")))
	return string(rule) + "-" + hex.EncodeToString(sum[:])[:12]
}

// puzzleChains finds connected sequences of puzzles. Two puzzles are
// chained when a direct parent/sub-puzzle edge links them, or when one
// puzzle's reward element is required by the other (the unlock
// relationship expressed through a shared element).
func puzzleChains(nodes []graph.Node, edges []graph.Edge) [][]string {
	puzzles := make(map[string]bool)
	for _, n := range nodes {
		if n.Type == entities.TypePuzzle {
			puzzles[n.ID] = true
		}
	}

	adjacency := make(map[string][]string)
	link := func(a, b string) {
		adjacency[a] = append(adjacency[a], b)
		adjacency[b] = append(adjacency[b], a)
	}

	// Element → puzzles that reward it / require it.
	rewardedBy := make(map[string][]string)
	requiredBy := make(map[string][]string)
	for _, e := range edges {
		switch e.Data.RelationshipType {
		case entities.RelationChain:
			if puzzles[e.Source] && puzzles[e.Target] {
				link(e.Source, e.Target)
			}
		case entities.RelationReward:
			if puzzles[e.Source] {
				rewardedBy[e.Target] = append(rewardedBy[e.Target], e.Source)
			}
		case entities.RelationRequirement:
			if puzzles[e.Source] {
				requiredBy[e.Target] = append(requiredBy[e.Target], e.Source)
			}
		}
	}
	for element, rewarders := range rewardedBy {
		for _, up := range rewarders {
			for _, down := range requiredBy[element] {
				if up != down {
					link(up, down)
				}
			}
		}
	}

	// Connected components over puzzle nodes, in stable node order.
	visited := make(map[string]bool)
	var chains [][]string
	for _, n := range nodes {
		if n.Type != entities.TypePuzzle || visited[n.ID] {
			continue
		}
		component := []string{}
		stack := []string{n.ID}
		visited[n.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, id)
			for _, neighbor := range adjacency[id] {
				if !visited[neighbor] {
					visited[neighbor] = true
					stack = append(stack, neighbor)
				}
			}
		}
		chains = append(chains, component)
	}
	return chains
}

// groupByMetadata buckets nodes of one type by a metadata attribute,
// skipping nodes where the attribute is empty.
func groupByMetadata(nodes []graph.Node, entityType entities.EntityType, key func(graph.NodeMetadata) string) map[string][]string {
	groups := make(map[string][]string)
	for _, n := range nodes {
		if n.Type != entityType {
			continue
		}
		k := key(n.Data.Metadata)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], n.ID)
	}
	return groups
}
