// Package events defines event types for workflow execution lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/graphion-dev/graphion/pkg/models"
)

type EventType string

// Topic carries every execution lifecycle event.
const Topic = "graphion.executions"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionStoppedEvent   EventType = "execution.stopped"

	NodeCompletedEvent EventType = "node.completed"
	NodeFailedEvent    EventType = "node.failed"
)

type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	WorkflowID  string         `json:"workflow_id"`
	ExecutionID string         `json:"execution_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID, executionID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	TriggerNodes []string `json:"trigger_nodes"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type ExecutionCompleted struct {
	BaseEvent

	Duration   time.Duration `json:"duration"`
	ErrorCount int           `json:"error_count"`
}

func (e ExecutionCompleted) GetType() EventType { return ExecutionCompletedEvent }

type ExecutionFailed struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
	Error    string        `json:"error"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

type ExecutionStopped struct {
	BaseEvent

	Duration time.Duration `json:"duration"`
}

func (e ExecutionStopped) GetType() EventType { return ExecutionStoppedEvent }

// NodeCompleted is emitted after each successful node dispatch.
type NodeCompleted struct {
	BaseEvent

	NodeID      string            `json:"node_id"`
	NodeType    string            `json:"node_type"`
	Status      models.NodeStatus `json:"status"`
	OutputPorts []string          `json:"output_ports"`
	DurationMs  int64             `json:"duration_ms"`
}

func (e NodeCompleted) GetType() EventType { return NodeCompletedEvent }

// NodeFailed is emitted when a node dispatch fails.
type NodeFailed struct {
	BaseEvent

	NodeID     string `json:"node_id"`
	NodeType   string `json:"node_type"`
	Error      string `json:"error"`
	DurationMs int64  `json:"duration_ms"`
}

func (e NodeFailed) GetType() EventType { return NodeFailedEvent }
