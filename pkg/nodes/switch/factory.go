package switchnode

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// SwitchNodeFactory creates SwitchNode instances.
type SwitchNodeFactory struct{}

// Create creates a new SwitchNode instance.
func (f *SwitchNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewSwitchNode(id, config)
}

// ID returns the factory ID.
func (f *SwitchNodeFactory) ID() string {
	return "switch"
}

// Name returns the factory name.
func (f *SwitchNodeFactory) Name() string {
	return "Switch"
}

// Description returns the factory description.
func (f *SwitchNodeFactory) Description() string {
	return "Routes execution to one of several branches based on an expression value."
}

// Category returns the node category.
func (f *SwitchNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *SwitchNodeFactory) InputPorts() []string {
	return []string{InputPortMain}
}

// OutputPorts returns the statically known output ports. Case ports are
// workflow-defined and resolved at execution time.
func (f *SwitchNodeFactory) OutputPorts() []string {
	return []string{OutputPortDefault, OutputPortError}
}

// Schema returns the JSON schema for Switch node configuration.
func (f *SwitchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Template expression whose rendered value selects the case.",
			},
			"cases": map[string]any{
				"type":        "object",
				"description": "Map of expression value to output port name.",
			},
		},
		"required": []string{"expression", "cases"},
	}
}

// NewSwitchNodeFactory creates a new factory instance.
func NewSwitchNodeFactory() protocol.NodeFactory {
	return &SwitchNodeFactory{}
}
