// Package models defines the core domain models for node-based workflow execution.
package models

// Workflow represents a directed graph of typed nodes. It is the immutable
// input to a run: the engine never mutates a Workflow.
type Workflow struct {
	ID          string          `json:"id"          validate:"required"`
	Name        string          `json:"name,omitempty"`
	Nodes       []*WorkflowNode `json:"nodes"       validate:"required,min=1,dive,required"`
	Connections []*Connection   `json:"connections" validate:"dive,required"`
	Variables   map[string]any  `json:"variables,omitempty"`
}

// WorkflowNode is a node definition inside a workflow. Type must resolve in
// the node registry at run start.
type WorkflowNode struct {
	ID     string         `json:"id"   validate:"required"`
	Type   string         `json:"type" validate:"required"`
	Config map[string]any `json:"config,omitempty"`
}

// Connection wires one node's output port to another node's input port.
type Connection struct {
	Source     string `json:"source"     validate:"required"`
	SourcePort string `json:"sourcePort" validate:"required"`
	Target     string `json:"target"     validate:"required"`
	TargetPort string `json:"targetPort" validate:"required"`
}

// NodeByID returns the node definition with the given id.
func (w *Workflow) NodeByID(id string) (*WorkflowNode, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// IncomingConnections returns all connections targeting the given node, in
// declaration order.
func (w *Workflow) IncomingConnections(nodeID string) []*Connection {
	var conns []*Connection

	for _, conn := range w.Connections {
		if conn.Target == nodeID {
			conns = append(conns, conn)
		}
	}

	return conns
}

// OutgoingConnections returns all connections originating at the given node,
// in declaration order.
func (w *Workflow) OutgoingConnections(nodeID string) []*Connection {
	var conns []*Connection

	for _, conn := range w.Connections {
		if conn.Source == nodeID {
			conns = append(conns, conn)
		}
	}

	return conns
}
