package workflow

import (
	"log/slog"
)

// nodeContext is the per-dispatch view handed to a node's Execute call. Input
// resolution follows the wiring: a port with an incoming connection reads the
// upstream node's last result on the connection's source port; an unwired
// port falls back to the raw input data injected into the dispatch.
type nodeContext struct {
	execution *Execution
	nodeID    string
	inputData map[string]any
	logger    *slog.Logger
}

func newNodeContext(execution *Execution, nodeID string, inputData map[string]any) *nodeContext {
	return &nodeContext{
		execution: execution,
		nodeID:    nodeID,
		inputData: inputData,
		logger:    execution.Logger().With("node_id", nodeID),
	}
}

func (c *nodeContext) ExecutionID() string {
	return c.execution.ID
}

func (c *nodeContext) WorkflowID() string {
	return c.execution.WorkflowID
}

func (c *nodeContext) InputData(port string) any {
	for _, conn := range c.execution.Workflow.IncomingConnections(c.nodeID) {
		if conn.TargetPort != port {
			continue
		}

		source, ok := c.execution.Node(conn.Source)
		if !ok || source.LastResult == nil {
			continue
		}

		if result, ok := source.LastResult[conn.SourcePort]; ok {
			return result.Data
		}
	}

	if value, ok := c.inputData[port]; ok {
		return value
	}

	if len(c.inputData) == 0 {
		return nil
	}

	return map[string]any(c.inputData)
}

func (c *nodeContext) Inputs() map[string]any {
	inputs := map[string]any{}

	for key, value := range c.inputData {
		inputs[key] = value
	}

	for _, conn := range c.execution.Workflow.IncomingConnections(c.nodeID) {
		source, ok := c.execution.Node(conn.Source)
		if !ok || source.LastResult == nil {
			continue
		}

		if result, ok := source.LastResult[conn.SourcePort]; ok {
			inputs[conn.TargetPort] = result.Data
		}
	}

	return inputs
}

func (c *nodeContext) Variable(key string) (any, bool) {
	return c.execution.Variable(key)
}

func (c *nodeContext) Variables() map[string]any {
	return c.execution.VariablesSnapshot()
}

func (c *nodeContext) SetVariable(key string, value any) {
	c.execution.SetVariable(key, value)
}

func (c *nodeContext) Logger() *slog.Logger {
	return c.logger
}
