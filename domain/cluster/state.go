package cluster

import (
	"encoding/json"
	"sync"
)

// Store persists expand/collapse state across sessions. Implementations
// live in infrastructure; a nil store degrades to in-memory state.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

const expandedStateKey = "cluster/expanded"

// StateMachine tracks expand/collapse state per cluster identifier,
// separately from the pure cluster computation. Every cluster starts
// collapsed. State is keyed by the content-derived cluster ID, so it
// stays valid when clusters are recomputed from a fresh graph.
type StateMachine struct {
	mu       sync.RWMutex
	expanded map[string]bool
	clusters map[string]Cluster
	memberOf map[string][]string // node ID → containing cluster IDs
	store    Store
}

// NewStateMachine creates a state machine, restoring persisted state
// when a store is given.
func NewStateMachine(store Store) *StateMachine {
	sm := &StateMachine{
		expanded: make(map[string]bool),
		clusters: make(map[string]Cluster),
		memberOf: make(map[string][]string),
		store:    store,
	}
	sm.restore()
	return sm
}

// SetClusters replaces the last-computed cluster map. Expansion state
// for IDs no longer present is retained: stable IDs mean the same
// cluster may reappear on the next recomputation.
func (sm *StateMachine) SetClusters(clusters map[string]Cluster) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.clusters = clusters
	sm.memberOf = make(map[string][]string)
	for id, c := range clusters {
		for _, member := range c.ChildIDs {
			sm.memberOf[member] = append(sm.memberOf[member], id)
		}
	}
}

// Clusters returns the last-computed cluster map.
func (sm *StateMachine) Clusters() map[string]Cluster {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make(map[string]Cluster, len(sm.clusters))
	for id, c := range sm.clusters {
		out[id] = c
	}
	return out
}

// IsExpanded reports the state of one cluster. Unknown IDs are
// collapsed, the initial state.
func (sm *StateMachine) IsExpanded(id string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.expanded[id]
}

// Toggle flips the state of one cluster and returns the new state.
func (sm *StateMachine) Toggle(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.expanded[id] = !sm.expanded[id]
	state := sm.expanded[id]
	sm.persistLocked()
	return state
}

// ExpandAll expands every currently known cluster.
func (sm *StateMachine) ExpandAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id := range sm.clusters {
		sm.expanded[id] = true
	}
	sm.persistLocked()
}

// CollapseAll collapses every currently known cluster.
func (sm *StateMachine) CollapseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id := range sm.clusters {
		delete(sm.expanded, id)
	}
	sm.persistLocked()
}

// OnNodeSelected auto-expands every collapsed cluster hiding the
// selected node. Returns the IDs of clusters that were expanded.
func (sm *StateMachine) OnNodeSelected(nodeID string) []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var opened []string
	for _, clusterID := range sm.memberOf[nodeID] {
		if !sm.expanded[clusterID] {
			sm.expanded[clusterID] = true
			opened = append(opened, clusterID)
		}
	}
	if len(opened) > 0 {
		sm.persistLocked()
	}
	return opened
}

// IsNodeHidden reports whether the node is a member of any cluster
// currently collapsed.
func (sm *StateMachine) IsNodeHidden(nodeID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, clusterID := range sm.memberOf[nodeID] {
		if !sm.expanded[clusterID] {
			return true
		}
	}
	return false
}

// Snapshot returns the set of expanded cluster IDs.
func (sm *StateMachine) Snapshot() map[string]bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make(map[string]bool, len(sm.expanded))
	for id, on := range sm.expanded {
		if on {
			out[id] = true
		}
	}
	return out
}

func (sm *StateMachine) restore() {
	if sm.store == nil {
		return
	}
	data, ok, err := sm.store.Get(expandedStateKey)
	if err != nil || !ok {
		return
	}
	// A stored literal null decodes without error into a nil map.
	var expanded map[string]bool
	if json.Unmarshal(data, &expanded) == nil && expanded != nil {
		sm.expanded = expanded
	}
}

// persistLocked writes the expanded set; callers hold the lock.
// Persistence failures are ignored: state is a convenience, not data.
func (sm *StateMachine) persistLocked() {
	if sm.store == nil {
		return
	}
	data, err := json.Marshal(sm.expanded)
	if err != nil {
		return
	}
	_ = sm.store.Set(expandedStateKey, data)
}
