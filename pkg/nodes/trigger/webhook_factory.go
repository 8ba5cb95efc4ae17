package trigger

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// WebhookTriggerNodeFactory creates WebhookTriggerNode instances.
type WebhookTriggerNodeFactory struct{}

// Create creates a new WebhookTriggerNode instance.
func (f *WebhookTriggerNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewWebhookTriggerNode(id, config)
}

// ID returns the factory ID.
func (f *WebhookTriggerNodeFactory) ID() string {
	return models.NodeTypeTriggerWebhook
}

// Name returns the factory name.
func (f *WebhookTriggerNodeFactory) Name() string {
	return "Webhook Trigger"
}

// Description returns the factory description.
func (f *WebhookTriggerNodeFactory) Description() string {
	return "Starts a workflow from an incoming webhook request."
}

// Category returns the node category.
func (f *WebhookTriggerNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeTrigger
}

// InputPorts returns the input ports for this node type.
func (f *WebhookTriggerNodeFactory) InputPorts() []string {
	return nil
}

// OutputPorts returns the output ports for this node type.
func (f *WebhookTriggerNodeFactory) OutputPorts() []string {
	return []string{TriggerOutputPortSuccess, TriggerOutputPortError}
}

// Schema returns the JSON schema for Webhook Trigger node configuration.
func (f *WebhookTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"webhook_path": map[string]any{
				"type":        "string",
				"description": "Path the webhook listens on, e.g. /hooks/orders.",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "Expected HTTP method.",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
				"default":     "POST",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Required header values for the webhook to fire.",
			},
		},
	}
}

// NewWebhookTriggerNodeFactory creates a new factory instance.
func NewWebhookTriggerNodeFactory() protocol.NodeFactory {
	return &WebhookTriggerNodeFactory{}
}
