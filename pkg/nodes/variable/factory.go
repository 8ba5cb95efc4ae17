package variable

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// VariableNodeFactory creates VariableNode instances.
type VariableNodeFactory struct{}

// Create creates a new VariableNode instance.
func (f *VariableNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewVariableNode(id, config)
}

// ID returns the factory ID.
func (f *VariableNodeFactory) ID() string {
	return "variable"
}

// Name returns the factory name.
func (f *VariableNodeFactory) Name() string {
	return "Set Variable"
}

// Description returns the factory description.
func (f *VariableNodeFactory) Description() string {
	return "Stores a value in the execution's variable scope."
}

// Category returns the node category.
func (f *VariableNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *VariableNodeFactory) InputPorts() []string {
	return []string{InputPortMain}
}

// OutputPorts returns the output ports for this node type.
func (f *VariableNodeFactory) OutputPorts() []string {
	return []string{OutputPortSuccess, OutputPortError}
}

// Schema returns the JSON schema for Set Variable node configuration.
func (f *VariableNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Variable name.",
			},
			"value": map[string]any{
				"type":        "string",
				"description": "Variable value. Supports templating.",
			},
		},
		"required": []string{"name", "value"},
	}
}

// NewVariableNodeFactory creates a new factory instance.
func NewVariableNodeFactory() protocol.NodeFactory {
	return &VariableNodeFactory{}
}
