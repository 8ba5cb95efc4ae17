package web

import "time"

// ExecuteWorkflowRequest is the body for execution endpoints. Options are
// optional; zero values fall back to the engine defaults.
type ExecuteWorkflowRequest struct {
	Input   map[string]any         `json:"input,omitempty"`
	Options *ExecutionOptionsInput `json:"options,omitempty"`
}

// ExecutionOptionsInput is the caller-facing form of run options.
type ExecutionOptionsInput struct {
	TimeoutSeconds           int  `json:"timeout_seconds,omitempty"`
	MaxNodeExecutions        int  `json:"max_node_executions,omitempty"`
	MaxTotalDispatches       int  `json:"max_total_dispatches,omitempty"`
	ContinueOnTriggerFailure bool `json:"continue_on_trigger_failure,omitempty"`
}

// StopExecutionResponse reports the outcome of a stop request.
type StopExecutionResponse struct {
	ExecutionID string    `json:"execution_id"`
	Stopped     bool      `json:"stopped"`
	Timestamp   time.Time `json:"timestamp"`
}
