package conditional

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// ConditionalNodeFactory creates ConditionalNode instances.
type ConditionalNodeFactory struct{}

// Create creates a new ConditionalNode instance.
func (f *ConditionalNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewConditionalNode(id, config)
}

// ID returns the factory ID.
func (f *ConditionalNodeFactory) ID() string {
	return "conditional"
}

// Name returns the factory name.
func (f *ConditionalNodeFactory) Name() string {
	return "Conditional"
}

// Description returns the factory description.
func (f *ConditionalNodeFactory) Description() string {
	return "Routes execution to the true or false branch based on a condition."
}

// Category returns the node category.
func (f *ConditionalNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *ConditionalNodeFactory) InputPorts() []string {
	return []string{InputPortMain}
}

// OutputPorts returns the output ports for this node type.
func (f *ConditionalNodeFactory) OutputPorts() []string {
	return []string{OutputPortTrue, OutputPortFalse, OutputPortError}
}

// Schema returns the JSON schema for Conditional node configuration.
func (f *ConditionalNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"description": "Template expression evaluated for truthiness.",
			},
		},
		"required": []string{"condition"},
	}
}

// NewConditionalNodeFactory creates a new factory instance.
func NewConditionalNodeFactory() protocol.NodeFactory {
	return &ConditionalNodeFactory{}
}
