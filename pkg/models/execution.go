package models

import "time"

// ExecutionStatus defines the lifecycle states of one run. Terminal states
// are mutually exclusive and final.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusStopped   ExecutionStatus = "stopped"
)

// Terminal reports whether the status is a final state.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusStopped
}

// ExecutionError is one entry in a run's append-only error log.
type ExecutionError struct {
	NodeID    string    `json:"node_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NodeSummary reports the final state of one node instance after a run.
type NodeSummary struct {
	NodeID         string     `json:"node_id"`
	Type           string     `json:"type"`
	Status         NodeStatus `json:"status"`
	ExecutionCount int        `json:"execution_count"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMs     int64      `json:"duration_ms"`
	Error          string     `json:"error,omitempty"`
}

// ExecutionResult is the immutable snapshot returned to the caller after a run.
type ExecutionResult struct {
	ExecutionID string           `json:"execution_id"`
	WorkflowID  string           `json:"workflow_id"`
	Status      ExecutionStatus  `json:"status"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Duration    time.Duration    `json:"duration"`
	Nodes       []NodeSummary    `json:"nodes"`
	Errors      []ExecutionError `json:"errors,omitempty"`
	Variables   map[string]any   `json:"variables,omitempty"`
}

// ExecutionSummary is the compact form used by active-run and history queries.
type ExecutionSummary struct {
	ExecutionID string          `json:"execution_id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	Duration    time.Duration   `json:"duration"`
	ErrorCount  int             `json:"error_count"`
}
