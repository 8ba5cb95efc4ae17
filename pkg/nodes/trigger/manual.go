// Package trigger provides trigger node implementations for workflow graph execution.
package trigger

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

const (
	TriggerInputPortExternal = "external"
	TriggerOutputPortSuccess = "success"
	TriggerOutputPortError   = "error"
)

// ManualTriggerNode seeds a run with whatever input the caller supplied to
// the engine. It is the simplest trigger: no external source, no filtering.
type ManualTriggerNode struct {
	id string
}

// NewManualTriggerNode creates a new manual trigger node.
func NewManualTriggerNode(id string, _ map[string]any) (*ManualTriggerNode, error) {
	return &ManualTriggerNode{id: id}, nil
}

// ID returns the node ID.
func (n *ManualTriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ManualTriggerNode) Type() string {
	return models.NodeTypeTriggerManual
}

// Initialize prepares the node for execution.
func (n *ManualTriggerNode) Initialize(_ context.Context) error {
	return nil
}

// Execute forwards the trigger input to the success output port.
func (n *ManualTriggerNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	data, _ := nodeCtx.InputData(TriggerInputPortExternal).(map[string]any)
	if data == nil {
		data = map[string]any{}
	}

	return map[string]models.NodeResult{
		TriggerOutputPortSuccess: {
			NodeID: n.id,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *ManualTriggerNode) Cleanup(_ context.Context) error {
	return nil
}
