// Package merge provides fan-in node implementation for workflow graph execution.
package merge

import (
	"context"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

const (
	OutputPortSuccess = "success"
	InputPortA        = "a"
	InputPortB        = "b"
	InputPortMain     = "main"
)

// MergeNode combines whatever inputs are available at dispatch time.
//
// The walker re-dispatches a fan-in target once per completed upstream
// branch, so a merge node typically executes multiple times per run and each
// execution sees the inputs resolved at that moment. There is no barrier
// waiting for all branches.
type MergeNode struct {
	id string
}

// NewMergeNode creates a new merge node.
func NewMergeNode(id string, _ map[string]any) (*MergeNode, error) {
	return &MergeNode{id: id}, nil
}

// ID returns the node ID.
func (n *MergeNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *MergeNode) Type() string {
	return "merge"
}

// Initialize prepares the node for execution.
func (n *MergeNode) Initialize(_ context.Context) error {
	return nil
}

// Execute shallow-merges the resolvable inputs, later ports overriding
// earlier ones on key conflict.
func (n *MergeNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	merged := map[string]any{}
	inputs := nodeCtx.Inputs()

	for _, port := range []string{InputPortMain, InputPortA, InputPortB} {
		if input, ok := inputs[port].(map[string]any); ok {
			for key, value := range input {
				merged[key] = value
			}
		}
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data:   merged,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *MergeNode) Cleanup(_ context.Context) error {
	return nil
}
