// Package transform provides data transformation node implementation for workflow graph execution.
package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/graphion-dev/graphion/pkg/template"
)

const (
	OutputPortSuccess = "success"
	OutputPortError   = "error"
	InputPortMain     = "main"
)

// TransformNode evaluates a template expression against the incoming data and
// emits the result.
type TransformNode struct {
	id         string
	expression string
}

// NewTransformNode creates a new transform node.
func NewTransformNode(id string, config map[string]any) (*TransformNode, error) {
	expression, ok := config["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	return &TransformNode{
		id:         id,
		expression: expression,
	}, nil
}

// ID returns the node ID.
func (n *TransformNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TransformNode) Type() string {
	return "transform"
}

// Initialize prepares the node for execution.
func (n *TransformNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the expression. Map results are emitted as-is so downstream
// nodes can address individual keys; anything else is wrapped under "result".
func (n *TransformNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	rendered, err := template.RenderWithContext(n.expression, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to evaluate expression: %v", err)), nil
	}

	var data map[string]any
	if m, ok := rendered.(map[string]any); ok {
		data = m
	} else {
		data = map[string]any{"result": rendered}
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *TransformNode) Cleanup(_ context.Context) error {
	return nil
}

func (n *TransformNode) createErrorResult(errorMessage string) map[string]models.NodeResult {
	return map[string]models.NodeResult{
		OutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":   errorMessage,
				"success": false,
			},
			Status: models.ResultStatusError,
			Error:  errorMessage,
		},
	}
}
