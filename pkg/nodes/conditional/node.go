// Package conditional provides branching node implementation for workflow graph execution.
package conditional

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/graphion-dev/graphion/pkg/template"
)

const (
	OutputPortTrue  = "true"
	OutputPortFalse = "false"
	OutputPortError = "error"
	InputPortMain   = "main"
)

// ConditionalNode evaluates a condition and emits on exactly one of the
// "true" or "false" ports. The unpopulated branch is never walked.
type ConditionalNode struct {
	id        string
	condition string
}

// NewConditionalNode creates a new conditional node.
func NewConditionalNode(id string, config map[string]any) (*ConditionalNode, error) {
	condition, ok := config["condition"].(string)
	if !ok || condition == "" {
		return nil, errors.New("missing required field 'condition'")
	}

	return &ConditionalNode{
		id:        id,
		condition: condition,
	}, nil
}

// ID returns the node ID.
func (n *ConditionalNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConditionalNode) Type() string {
	return "conditional"
}

// Initialize prepares the node for execution.
func (n *ConditionalNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the condition and routes the incoming data to the matching
// branch port.
func (n *ConditionalNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	rendered, err := template.RenderWithContext(n.condition, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to evaluate condition: %v", err)), nil
	}

	matched := isTruthy(rendered)

	port := OutputPortFalse
	if matched {
		port = OutputPortTrue
	}

	data := map[string]any{
		"condition": n.condition,
		"matched":   matched,
	}

	if input, ok := nodeCtx.InputData(InputPortMain).(map[string]any); ok {
		for key, value := range input {
			data[key] = value
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
func (n *ConditionalNode) Cleanup(_ context.Context) error {
	return nil
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		lowered := strings.ToLower(strings.TrimSpace(v))
		if lowered == "" || lowered == "false" || lowered == "0" {
			return false
		}

		if parsed, err := strconv.ParseBool(lowered); err == nil {
			return parsed
		}

		return true
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

func (n *ConditionalNode) createErrorResult(errorMessage string) map[string]models.NodeResult {
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
