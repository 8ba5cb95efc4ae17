// Package testutil provides helpers for testing node implementations without
// a running engine.
package testutil

import (
	"log/slog"
)

// NodeContext is an in-memory protocol.NodeContext for node tests.
type NodeContext struct {
	Execution string
	Workflow  string
	Input     map[string]any
	Vars      map[string]any
}

// NewNodeContext creates a test context with the given resolved inputs.
func NewNodeContext(input map[string]any) *NodeContext {
	return &NodeContext{
		Execution: "test-execution",
		Workflow:  "test-workflow",
		Input:     input,
		Vars:      map[string]any{},
	}
}

func (c *NodeContext) ExecutionID() string { return c.Execution }
func (c *NodeContext) WorkflowID() string  { return c.Workflow }

func (c *NodeContext) InputData(port string) any {
	if value, ok := c.Input[port]; ok {
		return value
	}

	if len(c.Input) == 0 {
		return nil
	}

	return c.Input
}

func (c *NodeContext) Inputs() map[string]any {
	return c.Input
}

func (c *NodeContext) Variable(key string) (any, bool) {
	value, ok := c.Vars[key]
	return value, ok
}

func (c *NodeContext) Variables() map[string]any {
	return c.Vars
}

func (c *NodeContext) SetVariable(key string, value any) {
	c.Vars[key] = value
}

func (c *NodeContext) Logger() *slog.Logger {
	return slog.Default()
}
