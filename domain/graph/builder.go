// Package graph builds the render-ready node/edge graph from a
// synthesized dataset and a view configuration.
//
// The builder guarantees two ordering properties: every node with a
// ParentID appears strictly after its parent in the node sequence, and
// the sequence is deterministic for a given input regardless of how the
// source collections were ordered at fetch time.
package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"alnretool/domain/entities"
	"alnretool/domain/synthesis"
	pkgerrors "alnretool/pkg/errors"
)

// builder accumulates state for one Build invocation.
type builder struct {
	cfg     Config
	profile viewProfile

	included map[entities.EntityType]bool
	// known holds every ID present in the full dataset, including
	// entity types excluded by the view. A reference to a view-excluded
	// entity is not a dangling reference.
	known map[string]bool

	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
	edgeSeen  map[string]bool

	placeholders map[string]bool
	missing      []synthesis.MissingEntity
}

// Build constructs the graph for one view over a synthesized dataset.
// Unknown view types are rejected; the empty string selects the
// full-graph view.
func Build(ds entities.Dataset, cfg Config) (*Graph, error) {
	start := time.Now()

	view := cfg.View
	if view == "" {
		view = ViewFullGraph
	}
	profile, ok := viewProfiles[view]
	if !ok {
		return nil, pkgerrors.NewValidationErrorf("unknown view type %q", cfg.View)
	}
	if view == ViewNodeConnections && cfg.RootID == "" {
		return nil, pkgerrors.NewValidationError("node-connections view requires a root node id")
	}
	cfg.View = view

	b := &builder{
		cfg:          cfg,
		profile:      profile,
		included:     includedTypes(cfg.EntityTypes),
		known:        knownIDs(ds),
		nodeIndex:    make(map[string]int),
		edgeSeen:     make(map[string]bool),
		placeholders: make(map[string]bool),
	}

	b.createNodes(ds)
	b.createEdges(ds)

	if view == ViewNodeConnections {
		if err := b.restrictToNeighborhood(); err != nil {
			return nil, err
		}
	}

	if profile.containment {
		b.assignContainment(ds)
	}

	b.nodes = b.reorderParentsFirst()

	if !cfg.IncludeOrphans {
		b.dropOrphans()
	}

	if cfg.RootID != "" {
		if i, ok := b.nodeIndex[cfg.RootID]; ok {
			b.nodes[i].Data.Metadata.IsFocused = true
		}
	}

	g := &Graph{
		Nodes:    b.nodes,
		Edges:    b.edges,
		Metadata: b.buildMetadata(start),
	}
	return g, nil
}

func includedTypes(types []entities.EntityType) map[entities.EntityType]bool {
	if len(types) == 0 {
		return map[entities.EntityType]bool{
			entities.TypeCharacter: true,
			entities.TypeElement:   true,
			entities.TypePuzzle:    true,
			entities.TypeTimeline:  true,
		}
	}
	out := make(map[entities.EntityType]bool, len(types))
	for _, t := range types {
		out[t] = true
	}
	return out
}

func knownIDs(ds entities.Dataset) map[string]bool {
	known := make(map[string]bool, len(ds.Characters)+len(ds.Elements)+len(ds.Puzzles)+len(ds.Timeline))
	for _, c := range ds.Characters {
		known[c.ID] = true
	}
	for _, e := range ds.Elements {
		known[e.ID] = true
	}
	for _, p := range ds.Puzzles {
		known[p.ID] = true
	}
	for _, t := range ds.Timeline {
		known[t.ID] = true
	}
	return known
}

// createNodes emits one node per included entity, in the fixed order
// characters, elements, puzzles, timeline events.
func (b *builder) createNodes(ds entities.Dataset) {
	if b.included[entities.TypeCharacter] {
		for _, c := range ds.Characters {
			b.addNode(Node{
				ID:   c.ID,
				Type: entities.TypeCharacter,
				Data: NodeData{
					Label: c.Name,
					Metadata: NodeMetadata{
						Tier:     c.Tier,
						Subgroup: c.Subgroup,
					},
				},
			})
		}
	}
	if b.included[entities.TypeElement] {
		for _, e := range ds.Elements {
			b.addNode(Node{
				ID:   e.ID,
				Type: entities.TypeElement,
				Data: NodeData{
					Label: e.Name,
					Metadata: NodeMetadata{
						BasicType: e.BasicType,
						Status:    e.Status,
					},
				},
			})
		}
	}
	if b.included[entities.TypePuzzle] {
		for _, p := range ds.Puzzles {
			b.addNode(Node{
				ID:   p.ID,
				Type: entities.TypePuzzle,
				Data: NodeData{
					Label: p.Name,
					Metadata: NodeMetadata{
						Timing: p.Timing,
					},
				},
			})
		}
	}
	if b.included[entities.TypeTimeline] {
		for _, t := range ds.Timeline {
			b.addNode(Node{
				ID:   t.ID,
				Type: entities.TypeTimeline,
				Data: NodeData{
					Label: t.Description,
					Metadata: NodeMetadata{
						NarrativeBlock: t.NarrativeBlock,
					},
				},
			})
		}
	}
}

func (b *builder) addNode(n Node) {
	b.nodeIndex[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

// createEdges walks every authoritative relationship field of every
// included entity. Edges are always emitted from the authoritative
// side of the pair so inverse fields never produce duplicates; the one
// exception is containment, which reads the synthesized
// PuzzleElementIDs because container edges point container → contained.
func (b *builder) createEdges(ds entities.Dataset) {
	if b.included[entities.TypeCharacter] {
		for _, c := range ds.Characters {
			for _, target := range c.ConnectionIDs {
				b.emitSymmetric(c.ID, target, entities.RelationCharacter)
			}
		}
	}
	if b.included[entities.TypeElement] {
		for _, e := range ds.Elements {
			b.emit(e.ID, e.OwnerID, entities.RelationOwnership)
			for _, target := range e.AssociatedCharacterIDs {
				b.emit(e.ID, target, entities.RelationAssociation)
			}
		}
	}
	if b.included[entities.TypePuzzle] {
		for _, p := range ds.Puzzles {
			for _, target := range p.RequiredElementIDs {
				b.emit(p.ID, target, entities.RelationRequirement)
			}
			for _, target := range p.RewardIDs {
				b.emit(p.ID, target, entities.RelationReward)
			}
			for _, target := range p.PuzzleElementIDs {
				b.emit(p.ID, target, entities.RelationContainer)
			}
			for _, target := range p.StoryRevealIDs {
				b.emit(p.ID, target, entities.RelationStoryReveal)
			}
			// Chain edges run parent → sub-puzzle.
			if p.ParentItemID != "" {
				b.emit(p.ParentItemID, p.ID, entities.RelationChain)
			}
		}
	}
	if b.included[entities.TypeTimeline] {
		for _, t := range ds.Timeline {
			for _, target := range t.CharacterIDs {
				b.emit(t.ID, target, entities.RelationTimeline)
			}
			for _, target := range t.MemoryEvidenceIDs {
				b.emit(t.ID, target, entities.RelationEvidence)
			}
		}
	}
}

// emit creates one edge if the relation is enabled for this view and
// both endpoints are representable. A reference to an entity absent
// from the full dataset produces a placeholder node to keep the broken
// reference visible; a reference to a view-excluded entity is skipped.
func (b *builder) emit(source, target string, rel entities.Relation) {
	if target == "" || !b.profile.relations[rel] {
		return
	}

	if _, ok := b.nodeIndex[source]; !ok {
		// Source outside the included node set (e.g. chain edge whose
		// parent puzzle is missing). Placeholder it like any other
		// dangling reference.
		if b.known[source] {
			return
		}
		b.addPlaceholder(source, target, rel)
	}

	if _, ok := b.nodeIndex[target]; !ok {
		if b.known[target] {
			return // exists, just not in this view
		}
		b.addPlaceholder(target, source, rel)
	}

	id := fmt.Sprintf("e::%s::%s::%s", rel, source, target)
	if b.edgeSeen[id] {
		return
	}
	b.edgeSeen[id] = true
	b.edges = append(b.edges, Edge{
		ID:     id,
		Source: source,
		Target: target,
		Data:   EdgeData{RelationshipType: rel},
	})
}

// emitSymmetric collapses A→B and B→A of a symmetric relation into one
// edge, keyed by the lexicographically ordered pair. Self-loops are
// kept: invalid self-reference is a data-quality concern, not a build
// error.
func (b *builder) emitSymmetric(source, target string, rel entities.Relation) {
	if target == "" {
		return
	}
	lo, hi := source, target
	if lo > hi {
		lo, hi = hi, lo
	}
	key := fmt.Sprintf("sym::%s::%s::%s", rel, lo, hi)
	if b.edgeSeen[key] {
		return
	}
	b.edgeSeen[key] = true
	b.emit(source, target, rel)
}

// addPlaceholder creates a synthetic node for a referenced but missing
// entity. Placeholders are deduplicated by ID; each one is also
// recorded as a missing-entity diagnostic.
func (b *builder) addPlaceholder(id, referencedBy string, rel entities.Relation) {
	b.missing = append(b.missing, synthesis.MissingEntity{
		ID:           id,
		ReferencedBy: referencedBy,
		Relation:     rel,
	})
	if b.placeholders[id] {
		return
	}
	b.placeholders[id] = true
	b.addNode(Node{
		ID:   id,
		Type: entities.TypeUnknown,
		Data: NodeData{
			Label:    placeholderLabel(id),
			Metadata: NodeMetadata{Placeholder: true},
		},
	})
}

func placeholderLabel(id string) string {
	if len(id) > 8 {
		return "Missing: " + id[:8]
	}
	return "Missing: " + id
}

// assignContainment marks puzzles with constituent elements as
// containers and parents the contained element nodes under them.
// Only real element nodes are parented; placeholders stay top-level.
func (b *builder) assignContainment(ds entities.Dataset) {
	for _, p := range ds.Puzzles {
		pi, ok := b.nodeIndex[p.ID]
		if !ok || len(p.PuzzleElementIDs) == 0 {
			continue
		}
		contained := false
		for _, elementID := range p.PuzzleElementIDs {
			ci, ok := b.nodeIndex[elementID]
			if !ok || b.nodes[ci].Type != entities.TypeElement {
				continue
			}
			if b.nodes[ci].ParentID != "" {
				continue // already claimed by another container
			}
			b.nodes[ci].ParentID = p.ID
			contained = true
		}
		if contained {
			b.nodes[pi].Data.Metadata.Container = true
		}
	}
}

// reorderParentsFirst re-sequences nodes so every parent precedes all
// of its children: parents are emitted in first-seen order and each
// parent's children follow immediately, depth first. This is a stable
// emission, not a sort, so output order is reproducible.
func (b *builder) reorderParentsFirst() []Node {
	children := make(map[string][]int)
	for i, n := range b.nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], i)
		}
	}

	out := make([]Node, 0, len(b.nodes))
	visited := make(map[int]bool, len(b.nodes))

	var visit func(i int)
	visit = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		out = append(out, b.nodes[i])
		for _, ci := range children[b.nodes[i].ID] {
			visit(ci)
		}
	}

	for i, n := range b.nodes {
		if n.ParentID == "" {
			visit(i)
		}
	}
	// A child whose parent never made it into the node set would be
	// unreachable above; strip its parent reference rather than emit a
	// dangling one.
	for i, n := range b.nodes {
		if !visited[i] {
			n.ParentID = ""
			out = append(out, n)
		}
	}

	b.reindex(out)
	return out
}

// dropOrphans removes nodes with zero incident edges, keeping the view
// root. Placeholders always carry the edge that created them, so they
// survive.
func (b *builder) dropOrphans() {
	incident := make(map[string]int)
	for _, e := range b.edges {
		incident[e.Source]++
		incident[e.Target]++
	}

	kept := make([]Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		if incident[n.ID] > 0 || n.ID == b.cfg.RootID {
			kept = append(kept, n)
		}
	}
	b.nodes = kept
	b.reindex(kept)
}

// restrictToNeighborhood trims the graph to the undirected neighborhood
// of the root node within MaxDepth hops.
func (b *builder) restrictToNeighborhood() error {
	if _, ok := b.nodeIndex[b.cfg.RootID]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("root node %q", b.cfg.RootID))
	}

	depth := b.cfg.MaxDepth
	if depth <= 0 {
		depth = 2
	}

	adjacency := make(map[string][]string)
	for _, e := range b.edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		adjacency[e.Target] = append(adjacency[e.Target], e.Source)
	}

	reached := map[string]bool{b.cfg.RootID: true}
	frontier := []string{b.cfg.RootID}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range adjacency[id] {
				if !reached[neighbor] {
					reached[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}

	kept := make([]Node, 0, len(reached))
	for _, n := range b.nodes {
		if reached[n.ID] {
			if n.Data.Metadata.Placeholder {
				n.Data.Metadata.IsConnected = true
			} else if n.ID != b.cfg.RootID {
				n.Data.Metadata.IsConnected = true
			}
			kept = append(kept, n)
		}
	}
	b.nodes = kept
	b.reindex(kept)

	keptEdges := make([]Edge, 0, len(b.edges))
	for _, e := range b.edges {
		if reached[e.Source] && reached[e.Target] {
			keptEdges = append(keptEdges, e)
		}
	}
	b.edges = keptEdges
	return nil
}

func (b *builder) reindex(nodes []Node) {
	b.nodeIndex = make(map[string]int, len(nodes))
	for i, n := range nodes {
		b.nodeIndex[n.ID] = i
	}
	b.nodes = nodes
}

func (b *builder) buildMetadata(start time.Time) Metadata {
	counts := make(map[entities.EntityType]int)
	placeholderCount := 0
	for _, n := range b.nodes {
		counts[n.Type]++
		if n.Data.Metadata.Placeholder {
			placeholderCount++
		}
	}

	missing := b.missing
	if missing == nil {
		missing = []synthesis.MissingEntity{}
	}

	return Metadata{
		BuildID:          uuid.NewString(),
		TotalNodes:       len(b.nodes),
		TotalEdges:       len(b.edges),
		PlaceholderNodes: placeholderCount,
		MissingEntities:  missing,
		EntityCounts:     counts,
		BuildTimeMS:      time.Since(start).Milliseconds(),
	}
}
