// Package variable provides run-variable node implementation for workflow graph execution.
package variable

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

// VariableNode sets an execution-scoped variable visible to every node that
// runs after it.
type VariableNode struct {
	id    string
	name  string
	value string
}

// NewVariableNode creates a new variable node.
func NewVariableNode(id string, config map[string]any) (*VariableNode, error) {
	name, ok := config["name"].(string)
	if !ok || name == "" {
		return nil, errors.New("missing required field 'name'")
	}

	value, ok := config["value"].(string)
	if !ok {
		return nil, errors.New("missing required field 'value'")
	}

	return &VariableNode{
		id:    id,
		name:  name,
		value: value,
	}, nil
}

// ID returns the node ID.
func (n *VariableNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *VariableNode) Type() string {
	return "variable"
}

// Initialize prepares the node for execution.
func (n *VariableNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the value template and stores it on the execution.
func (n *VariableNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	rendered, err := template.RenderWithContext(n.value, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to render variable value: %v", err)), nil
	}

	nodeCtx.SetVariable(n.name, rendered)

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data: map[string]any{
				"name":  n.name,
				"value": rendered,
			},
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *VariableNode) Cleanup(_ context.Context) error {
	return nil
}

func (n *VariableNode) createErrorResult(errorMessage string) map[string]models.NodeResult {
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
