package trigger

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// ScheduleTriggerNodeFactory creates ScheduleTriggerNode instances.
type ScheduleTriggerNodeFactory struct{}

// Create creates a new ScheduleTriggerNode instance.
func (f *ScheduleTriggerNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewScheduleTriggerNode(id, config)
}

// ID returns the factory ID.
func (f *ScheduleTriggerNodeFactory) ID() string {
	return models.NodeTypeTriggerSchedule
}

// Name returns the factory name.
func (f *ScheduleTriggerNodeFactory) Name() string {
	return "Schedule Trigger"
}

// Description returns the factory description.
func (f *ScheduleTriggerNodeFactory) Description() string {
	return "Starts a workflow on a cron schedule."
}

// Category returns the node category.
func (f *ScheduleTriggerNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeTrigger
}

// InputPorts returns the input ports for this node type.
func (f *ScheduleTriggerNodeFactory) InputPorts() []string {
	return nil
}

// OutputPorts returns the output ports for this node type.
func (f *ScheduleTriggerNodeFactory) OutputPorts() []string {
	return []string{TriggerOutputPortSuccess}
}

// Schema returns the JSON schema for Schedule Trigger node configuration.
func (f *ScheduleTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cron_expression": map[string]any{
				"type":        "string",
				"description": "Standard cron expression, e.g. '*/5 * * * *'.",
			},
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone name for the schedule.",
				"default":     "UTC",
			},
		},
		"required": []string{"cron_expression"},
	}
}

// NewScheduleTriggerNodeFactory creates a new factory instance.
func NewScheduleTriggerNodeFactory() protocol.NodeFactory {
	return &ScheduleTriggerNodeFactory{}
}
