// Package switchnode provides multi-way branching node implementation for workflow graph execution.
package switchnode

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/graphion-dev/graphion/pkg/template"
)

const (
	OutputPortDefault = "default"
	OutputPortError   = "error"
	InputPortMain     = "main"
)

// SwitchNode routes execution to the port whose case value matches the
// rendered expression, or to "default" when no case matches.
type SwitchNode struct {
	id         string
	expression string
	cases      map[string]string
}

// NewSwitchNode creates a new switch node.
func NewSwitchNode(id string, config map[string]any) (*SwitchNode, error) {
	expression, ok := config["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	rawCases, ok := config["cases"].(map[string]any)
	if !ok || len(rawCases) == 0 {
		return nil, errors.New("missing required field 'cases'")
	}

	cases := make(map[string]string, len(rawCases))

	for value, port := range rawCases {
		portName, ok := port.(string)
		if !ok || portName == "" {
			return nil, fmt.Errorf("case '%s' must map to a port name", value)
		}

		cases[value] = portName
	}

	return &SwitchNode{
		id:         id,
		expression: expression,
		cases:      cases,
	}, nil
}

// ID returns the node ID.
func (n *SwitchNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *SwitchNode) Type() string {
	return "switch"
}

// Initialize prepares the node for execution.
func (n *SwitchNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the expression and emits on the matching case port only.
func (n *SwitchNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	rendered, err := template.RenderWithContext(n.expression, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to evaluate expression: %v", err)), nil
	}

	value := fmt.Sprintf("%v", rendered)

	port, matched := n.cases[value]
	if !matched {
		port = OutputPortDefault
	}

	data := map[string]any{
		"value":   value,
		"matched": matched,
	}

	if input, ok := nodeCtx.InputData(InputPortMain).(map[string]any); ok {
		for key, v := range input {
			data[key] = v
		}
	}

	return map[string]models.NodeResult{
		port: {
			NodeID: n.id,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *SwitchNode) Cleanup(_ context.Context) error {
	return nil
}

func (n *SwitchNode) createErrorResult(errorMessage string) map[string]models.NodeResult {
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
