package workflow

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a structurally invalid workflow. It carries every
// problem found, not just the first one.
type ValidationError struct {
	WorkflowID string
	Errors     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow '%s' is invalid: %s", e.WorkflowID, strings.Join(e.Errors, "; "))
}

// NoTriggerError reports a workflow without any trigger-category node.
type NoTriggerError struct {
	WorkflowID string
}

func (e *NoTriggerError) Error() string {
	return fmt.Sprintf("workflow '%s' has no trigger node", e.WorkflowID)
}

// NodeInitializationError reports a node that failed to construct or
// initialize. It aborts the whole run before any dispatch.
type NodeInitializationError struct {
	NodeID string
	Err    error
}

func (e *NodeInitializationError) Error() string {
	return fmt.Sprintf("failed to initialize node '%s': %v", e.NodeID, e.Err)
}

func (e *NodeInitializationError) Unwrap() error {
	return e.Err
}

// NodeNotFoundError reports a dispatch targeting a node id with no instance.
type NodeNotFoundError struct {
	NodeID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node '%s' not found in execution", e.NodeID)
}

// ExecutionLimitError reports a node whose per-run dispatch count reached the
// configured cap, or a run whose total dispatch count did.
type ExecutionLimitError struct {
	NodeID string
	Limit  int
}

func (e *ExecutionLimitError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("total node dispatch limit of %d exceeded", e.Limit)
	}

	return fmt.Sprintf("node '%s' exceeded execution limit of %d", e.NodeID, e.Limit)
}

// NodeExecutionError reports a node whose Execute returned an error.
type NodeExecutionError struct {
	NodeID string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node '%s' execution failed: %v", e.NodeID, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// ExecutionTimeoutError reports a run that exceeded its configured timeout.
type ExecutionTimeoutError struct {
	ExecutionID string
	Timeout     time.Duration
}

func (e *ExecutionTimeoutError) Error() string {
	return fmt.Sprintf("execution '%s' exceeded timeout of %s", e.ExecutionID, e.Timeout)
}

// ExecutionStoppedError reports a dispatch attempted after the run left the
// running state. It is used internally to halt the walk after StopExecution.
type ExecutionStoppedError struct {
	ExecutionID string
}

func (e *ExecutionStoppedError) Error() string {
	return fmt.Sprintf("execution '%s' is no longer running", e.ExecutionID)
}
