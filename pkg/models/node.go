package models

import "time"

// CategoryType represents the category of a node type.
type CategoryType string

const (
	CategoryTypeAction  CategoryType = "action"  // Regular action nodes (http, log, transform, etc.)
	CategoryTypeTrigger CategoryType = "trigger" // Trigger nodes that seed a run (manual, webhook, schedule)
)

// Built-in trigger node types.
const (
	NodeTypeTriggerManual   = "trigger:manual"
	NodeTypeTriggerWebhook  = "trigger:webhook"
	NodeTypeTriggerSchedule = "trigger:schedule"
)

// NodeStatus defines the lifecycle states of a node instance within one run.
type NodeStatus string

const (
	NodeStatusPending     NodeStatus = "pending"
	NodeStatusInitialized NodeStatus = "initialized"
	NodeStatusExecuting   NodeStatus = "executing"
	NodeStatusCompleted   NodeStatus = "completed"
	NodeStatusFailed      NodeStatus = "failed"
)

// Result statuses carried on individual port results.
const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// NodeResult is the value a node emits on one of its output ports.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	Data      map[string]any `json:"data"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}
