package merge

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// MergeNodeFactory creates MergeNode instances.
type MergeNodeFactory struct{}

// Create creates a new MergeNode instance.
func (f *MergeNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewMergeNode(id, config)
}

// ID returns the factory ID.
func (f *MergeNodeFactory) ID() string {
	return "merge"
}

// Name returns the factory name.
func (f *MergeNodeFactory) Name() string {
	return "Merge"
}

// Description returns the factory description.
func (f *MergeNodeFactory) Description() string {
	return "Combines data from multiple upstream branches into one object."
}

// Category returns the node category.
func (f *MergeNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *MergeNodeFactory) InputPorts() []string {
	return []string{InputPortMain, InputPortA, InputPortB}
}

// OutputPorts returns the output ports for this node type.
func (f *MergeNodeFactory) OutputPorts() []string {
	return []string{OutputPortSuccess}
}

// Schema returns the JSON schema for Merge node configuration.
func (f *MergeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// NewMergeNodeFactory creates a new factory instance.
func NewMergeNodeFactory() protocol.NodeFactory {
	return &MergeNodeFactory{}
}
