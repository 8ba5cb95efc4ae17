package workflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/graphion-dev/graphion/pkg/models"
)

// ValidationResult carries the outcome of a structural workflow check. All
// problems are collected, so callers can report everything at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator checks that a workflow definition is structurally well-formed:
// non-empty node set, unique node ids, connections referencing existing
// nodes, and an acyclic connection graph.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a workflow validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the workflow and returns every structural error found. It
// never returns a Go error; the caller decides whether to abort.
func (v *Validator) Validate(wf *models.Workflow) *ValidationResult {
	var errs []string

	if wf == nil {
		return &ValidationResult{Valid: false, Errors: []string{"workflow is nil"}}
	}

	if err := v.validate.Struct(wf); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range fieldErrs {
				errs = append(errs, fmt.Sprintf("field '%s' failed '%s' validation", fieldErr.Namespace(), fieldErr.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if len(wf.Nodes) == 0 {
		errs = append(errs, "workflow has no nodes")
	}

	nodeIDs := make(map[string]bool, len(wf.Nodes))

	for _, node := range wf.Nodes {
		if node == nil {
			errs = append(errs, "workflow contains a nil node")
			continue
		}

		if nodeIDs[node.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id '%s'", node.ID))
		}

		nodeIDs[node.ID] = true
	}

	for i, conn := range wf.Connections {
		if conn == nil {
			errs = append(errs, fmt.Sprintf("connection %d is nil", i))
			continue
		}

		if !nodeIDs[conn.Source] {
			errs = append(errs, fmt.Sprintf("connection %d references unknown source node '%s'", i, conn.Source))
		}

		if !nodeIDs[conn.Target] {
			errs = append(errs, fmt.Sprintf("connection %d references unknown target node '%s'", i, conn.Target))
		}
	}

	errs = append(errs, detectCycles(wf)...)

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// detectCycles runs a depth-first search from every node so cycles in
// disconnected subgraphs are found too. A back edge to a node still on the
// DFS stack signals a cycle.
func detectCycles(wf *models.Workflow) []string {
	adjacency := make(map[string][]string, len(wf.Nodes))

	for _, conn := range wf.Connections {
		if conn == nil {
			continue
		}

		adjacency[conn.Source] = append(adjacency[conn.Source], conn.Target)
	}

	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(wf.Nodes))

	var errs []string

	var visit func(nodeID string) bool

	visit = func(nodeID string) bool {
		state[nodeID] = onStack

		for _, next := range adjacency[nodeID] {
			switch state[next] {
			case onStack:
				errs = append(errs, fmt.Sprintf("cycle detected involving node '%s'", next))
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}

		state[nodeID] = done

		return false
	}

	for _, node := range wf.Nodes {
		if node == nil {
			continue
		}

		if state[node.ID] == unvisited {
			if visit(node.ID) {
				break
			}
		}
	}

	return errs
}
