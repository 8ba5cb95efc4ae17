package trigger

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// WebhookTriggerNode shapes incoming webhook event data for downstream nodes.
type WebhookTriggerNode struct {
	id     string
	config WebhookTriggerConfig
}

// WebhookTriggerConfig defines the configuration for webhook trigger nodes.
type WebhookTriggerConfig struct {
	WebhookPath string            `json:"webhook_path"`
	Headers     map[string]string `json:"headers"`
	Method      string            `json:"method"`
}

// NewWebhookTriggerNode creates a new webhook trigger node.
func NewWebhookTriggerNode(id string, config map[string]any) (*WebhookTriggerNode, error) {
	webhookConfig := WebhookTriggerConfig{
		Method:  "POST",
		Headers: make(map[string]string),
	}

	if webhookPath, ok := config["webhook_path"].(string); ok {
		webhookConfig.WebhookPath = webhookPath
	}

	if method, ok := config["method"].(string); ok {
		webhookConfig.Method = method
	}

	if headers, ok := config["headers"].(map[string]any); ok {
		for k, v := range headers {
			if headerValue, ok := v.(string); ok {
				webhookConfig.Headers[k] = headerValue
			}
		}
	}

	return &WebhookTriggerNode{
		id:     id,
		config: webhookConfig,
	}, nil
}

// ID returns the node ID.
func (n *WebhookTriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *WebhookTriggerNode) Type() string {
	return models.NodeTypeTriggerWebhook
}

// Initialize prepares the node for execution.
func (n *WebhookTriggerNode) Initialize(_ context.Context) error {
	return nil
}

// Execute processes the webhook event data injected into the run.
func (n *WebhookTriggerNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	webhookData, _ := nodeCtx.InputData(TriggerInputPortExternal).(map[string]any)
	if webhookData == nil {
		return n.createErrorResult("external webhook data not found"), nil
	}

	return map[string]models.NodeResult{
		TriggerOutputPortSuccess: {
			NodeID: n.id,
			Data: map[string]any{
				"headers": webhookData["headers"],
				"body":    webhookData["body"],
				"method":  webhookData["method"],
				"url":     webhookData["url"],
				"query":   webhookData["query"],
			},
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *WebhookTriggerNode) Cleanup(_ context.Context) error {
	return nil
}

func (n *WebhookTriggerNode) createErrorResult(message string) map[string]models.NodeResult {
	return map[string]models.NodeResult{
		TriggerOutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":   message,
				"node_id": n.id,
			},
			Status: models.ResultStatusError,
		},
	}
}
