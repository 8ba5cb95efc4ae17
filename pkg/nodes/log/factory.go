package log

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// LogNodeFactory creates LogNode instances.
type LogNodeFactory struct{}

// Create creates a new LogNode instance.
func (f *LogNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewLogNode(id, config)
}

// ID returns the factory ID.
func (f *LogNodeFactory) ID() string {
	return "log"
}

// Name returns the factory name.
func (f *LogNodeFactory) Name() string {
	return "Log"
}

// Description returns the factory description.
func (f *LogNodeFactory) Description() string {
	return "Writes a templated message to the execution log."
}

// Category returns the node category.
func (f *LogNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *LogNodeFactory) InputPorts() []string {
	return []string{InputPortMain}
}

// OutputPorts returns the output ports for this node type.
func (f *LogNodeFactory) OutputPorts() []string {
	return []string{OutputPortSuccess, OutputPortError}
}

// Schema returns the JSON schema for Log node configuration.
func (f *LogNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to log. Supports templating against inputs and variables.",
			},
			"level": map[string]any{
				"type":        "string",
				"description": "Log level for the message.",
				"enum":        []string{"debug", "info", "warn", "error"},
				"default":     "info",
			},
		},
		"required": []string{"message"},
	}
}

// NewLogNodeFactory creates a new factory instance.
func NewLogNodeFactory() protocol.NodeFactory {
	return &LogNodeFactory{}
}
