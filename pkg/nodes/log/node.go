// Package log provides logging node implementation for workflow graph execution.
package log

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

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// LogNode writes a templated message to the run's logger.
type LogNode struct {
	id      string
	message string
	level   string
}

// NewLogNode creates a new logging node.
func NewLogNode(id string, config map[string]any) (*LogNode, error) {
	message, ok := config["message"].(string)
	if !ok {
		return nil, errors.New("missing required field 'message'")
	}

	level := "info"
	if lvl, ok := config["level"].(string); ok {
		if !validLevels[lvl] {
			return nil, fmt.Errorf("invalid log level '%s' (must be debug, info, warn, or error)", lvl)
		}

		level = lvl
	}

	return &LogNode{
		id:      id,
		message: message,
		level:   level,
	}, nil
}

// ID returns the node ID.
func (n *LogNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *LogNode) Type() string {
	return "log"
}

// Initialize prepares the node for execution.
func (n *LogNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the message and logs it through the run-scoped logger, so
// output is attributable to a specific execution id.
func (n *LogNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	renderedMessage, err := template.RenderWithContext(n.message, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to render log message template: %v", err)), nil
	}

	message := fmt.Sprintf("%v", renderedMessage)

	logger := nodeCtx.Logger()

	switch n.level {
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error":
		logger.Error(message)
	default:
		logger.Info(message)
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data: map[string]any{
				"message": message,
				"level":   n.level,
				"logged":  true,
			},
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *LogNode) Cleanup(_ context.Context) error {
	return nil
}

func (n *LogNode) createErrorResult(errorMessage string) map[string]models.NodeResult {
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
