package filters

import (
	"strings"

	"alnretool/domain/entities"
	"alnretool/domain/graph"
)

// Apply evaluates the client-only filter subset against a built graph
// and returns a copy with the visual metadata flags set. Nodes are
// marked, never removed: filtered-out content stays visible but dimmed,
// so data problems remain observable.
func Apply(g *graph.Graph, f ClientSideFilters) *graph.Graph {
	out := &graph.Graph{
		Nodes:    make([]graph.Node, len(g.Nodes)),
		Edges:    g.Edges,
		Metadata: g.Metadata,
	}
	copy(out.Nodes, g.Nodes)

	if !HasClientSideFilters(f) {
		return out
	}

	search := strings.ToLower(f.Search)
	completed := completedPuzzles(g)
	connected := connectedTo(g, f.SelectedCharacterID)

	for i := range out.Nodes {
		n := &out.Nodes[i]
		meta := &n.Data.Metadata

		if search != "" && strings.Contains(strings.ToLower(n.Data.Label), search) {
			meta.SearchMatch = true
		}

		if f.SelectedCharacterID != "" {
			if n.ID == f.SelectedCharacterID {
				meta.IsFocused = true
			} else if connected[n.ID] {
				meta.IsConnected = true
			}
		}

		if n.Type == entities.TypePuzzle {
			switch f.CompletionStatus {
			case "completed":
				meta.IsFiltered = !completed[n.ID]
			case "incomplete":
				meta.IsFiltered = completed[n.ID]
			}
		}
	}

	return out
}

// completedPuzzles decides completion per puzzle from the statuses of
// its required and reward elements. This is the cross-entity rollup
// that keeps completion filtering client-side.
func completedPuzzles(g *graph.Graph) map[string]bool {
	done := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.Type == entities.TypeElement {
			done[n.ID] = elementDone(n.Data.Metadata.Status)
		}
	}

	complete := make(map[string]bool)
	pending := make(map[string]bool)
	for _, e := range g.Edges {
		rel := e.Data.RelationshipType
		if rel != entities.RelationRequirement && rel != entities.RelationReward {
			continue
		}
		// Edges run puzzle → element.
		if done[e.Target] {
			complete[e.Source] = true
		} else {
			pending[e.Source] = true
		}
	}

	for id := range pending {
		delete(complete, id)
	}
	return complete
}

func elementDone(status string) bool {
	switch status {
	case "Done", "Complete", "Ready for Playtest":
		return true
	}
	return false
}

// connectedTo returns the set of node IDs adjacent to the given node.
func connectedTo(g *graph.Graph, id string) map[string]bool {
	if id == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, e := range g.Edges {
		if e.Source == id {
			out[e.Target] = true
		}
		if e.Target == id {
			out[e.Source] = true
		}
	}
	return out
}
