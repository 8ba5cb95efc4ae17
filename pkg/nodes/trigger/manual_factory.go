package trigger

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// ManualTriggerNodeFactory creates ManualTriggerNode instances.
type ManualTriggerNodeFactory struct{}

// Create creates a new ManualTriggerNode instance.
func (f *ManualTriggerNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewManualTriggerNode(id, config)
}

// ID returns the factory ID.
func (f *ManualTriggerNodeFactory) ID() string {
	return models.NodeTypeTriggerManual
}

// Name returns the factory name.
func (f *ManualTriggerNodeFactory) Name() string {
	return "Manual Trigger"
}

// Description returns the factory description.
func (f *ManualTriggerNodeFactory) Description() string {
	return "Starts a workflow on demand with caller-supplied input data."
}

// Category returns the node category.
func (f *ManualTriggerNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeTrigger
}

// InputPorts returns the input ports for this node type.
func (f *ManualTriggerNodeFactory) InputPorts() []string {
	return nil
}

// OutputPorts returns the output ports for this node type.
func (f *ManualTriggerNodeFactory) OutputPorts() []string {
	return []string{TriggerOutputPortSuccess}
}

// Schema returns the JSON schema for Manual Trigger node configuration.
func (f *ManualTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// NewManualTriggerNodeFactory creates a new factory instance.
func NewManualTriggerNodeFactory() protocol.NodeFactory {
	return &ManualTriggerNodeFactory{}
}
