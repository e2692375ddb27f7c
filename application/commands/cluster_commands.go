package commands

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ToggleClusterCommand flips one cluster between expanded and collapsed.
type ToggleClusterCommand struct {
	ClusterID string `json:"clusterId" validate:"required"`
}

// Validate implements bus.Command
func (c ToggleClusterCommand) Validate() error {
	return validate.Struct(c)
}

// ExpandAllClustersCommand expands every known cluster.
type ExpandAllClustersCommand struct{}

// Validate implements bus.Command
func (c ExpandAllClustersCommand) Validate() error { return nil }

// CollapseAllClustersCommand collapses every known cluster.
type CollapseAllClustersCommand struct{}

// Validate implements bus.Command
func (c CollapseAllClustersCommand) Validate() error { return nil }

// SelectNodeCommand records a node selection. Selecting a node hidden
// inside a collapsed cluster auto-expands that cluster.
type SelectNodeCommand struct {
	NodeID string `json:"nodeId" validate:"required"`
}

// Validate implements bus.Command
func (c SelectNodeCommand) Validate() error {
	return validate.Struct(c)
}
