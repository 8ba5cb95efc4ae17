package httprequest

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

// HTTPRequestNodeFactory creates HTTPRequestNode instances.
type HTTPRequestNodeFactory struct{}

// Create creates a new HTTPRequestNode instance.
func (f *HTTPRequestNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewHTTPRequestNode(id, config)
}

// ID returns the factory ID.
func (f *HTTPRequestNodeFactory) ID() string {
	return "httprequest"
}

// Name returns the factory name.
func (f *HTTPRequestNodeFactory) Name() string {
	return "HTTP Request"
}

// Description returns the factory description.
func (f *HTTPRequestNodeFactory) Description() string {
	return "Performs an HTTP request and exposes the response to downstream nodes."
}

// Category returns the node category.
func (f *HTTPRequestNodeFactory) Category() models.CategoryType {
	return models.CategoryTypeAction
}

// InputPorts returns the input ports for this node type.
func (f *HTTPRequestNodeFactory) InputPorts() []string {
	return []string{InputPortMain}
}

// OutputPorts returns the output ports for this node type.
func (f *HTTPRequestNodeFactory) OutputPorts() []string {
	return []string{OutputPortSuccess, OutputPortError}
}

// Schema returns the JSON schema for HTTP Request node configuration.
func (f *HTTPRequestNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL. Supports templating against inputs and variables.",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method.",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"},
				"default":     "GET",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers.",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports templating.",
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Request timeout in seconds.",
				"default":     30,
			},
			"retries": map[string]any{
				"type":        "number",
				"description": "Number of retries on transport failure.",
				"default":     0,
			},
		},
		"required": []string{"url"},
	}
}

// NewHTTPRequestNodeFactory creates a new factory instance.
func NewHTTPRequestNodeFactory() protocol.NodeFactory {
	return &HTTPRequestNodeFactory{}
}
