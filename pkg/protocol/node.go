// Package protocol defines the interfaces and contracts for pluggable nodes.
package protocol

import (
	"context"
	"log/slog"

	"github.com/graphion-dev/graphion/pkg/models"
)

// NodeContext is the per-dispatch view a node receives when it executes.
// Input resolution and the variable store are bound to the run that owns the
// dispatch; nodes never see state from other runs.
type NodeContext interface {
	// ExecutionID returns the id of the run this dispatch belongs to.
	ExecutionID() string

	// WorkflowID returns the id of the workflow being executed.
	WorkflowID() string

	// InputData resolves the value arriving on the given input port. Wired
	// ports read the upstream node's last result; unwired ports fall back to
	// the data injected directly into the dispatch (trigger input).
	InputData(port string) any

	// Inputs returns every resolved input port value for this dispatch.
	Inputs() map[string]any

	// Variable reads a key from the run-scoped variable store.
	Variable(key string) (any, bool)

	// Variables returns a snapshot of the run-scoped variable store.
	Variables() map[string]any

	// SetVariable writes a key to the run-scoped variable store.
	SetVariable(key string, value any)

	// Logger returns a logger carrying the execution and node ids.
	Logger() *slog.Logger
}

// Node is the contract every node instance fulfils. Instances are created per
// run, initialized at run start and cleaned up at run end.
type Node interface {
	// ID returns the node instance id (the workflow node id).
	ID() string

	// Type returns the node type name.
	Type() string

	// Initialize prepares the node for execution. Called once at run start.
	Initialize(ctx context.Context) error

	// Execute runs the node and returns its populated output ports. An output
	// port absent from the returned map does not fire downstream connections.
	Execute(ctx context.Context, nodeCtx NodeContext) (map[string]models.NodeResult, error)

	// Cleanup releases node resources. Called once at run end, even on failure.
	Cleanup(ctx context.Context) error
}

// NodeMetadata describes a node type for catalog queries.
type NodeMetadata struct {
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    models.CategoryType `json:"category"`
	Inputs      []string            `json:"inputs"`
	Outputs     []string            `json:"outputs"`
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Category returns whether this node type is a trigger or an action
	Category() models.CategoryType

	// InputPorts returns the named input ports of this node type
	InputPorts() []string

	// OutputPorts returns the named output ports of this node type
	OutputPorts() []string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}
