package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/robfig/cron/v3"
)

// ScheduleTriggerNode seeds runs fired by the cron scheduler. The cron
// expression is validated at construction; the scheduler runner owns the
// actual timer.
type ScheduleTriggerNode struct {
	id     string
	config ScheduleTriggerConfig
}

// ScheduleTriggerConfig defines the configuration for schedule trigger nodes.
type ScheduleTriggerConfig struct {
	CronExpression string `json:"cron_expression"`
	Timezone       string `json:"timezone"`
}

// NewScheduleTriggerNode creates a new schedule trigger node.
func NewScheduleTriggerNode(id string, config map[string]any) (*ScheduleTriggerNode, error) {
	scheduleConfig := ScheduleTriggerConfig{
		Timezone: "UTC",
	}

	cronExpr, ok := config["cron_expression"].(string)
	if !ok {
		return nil, errors.New("cron_expression is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	scheduleConfig.CronExpression = cronExpr

	if timezone, ok := config["timezone"].(string); ok {
		scheduleConfig.Timezone = timezone
	}

	return &ScheduleTriggerNode{
		id:     id,
		config: scheduleConfig,
	}, nil
}

// ID returns the node ID.
func (n *ScheduleTriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ScheduleTriggerNode) Type() string {
	return models.NodeTypeTriggerSchedule
}

// Initialize prepares the node for execution.
func (n *ScheduleTriggerNode) Initialize(_ context.Context) error {
	return nil
}

// Execute emits the tick data for downstream nodes.
func (n *ScheduleTriggerNode) Execute(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	tickData, _ := nodeCtx.InputData(TriggerInputPortExternal).(map[string]any)

	data := map[string]any{
		"cron_expression": n.config.CronExpression,
		"timezone":        n.config.Timezone,
		"fired_at":        time.Now().UTC().Format(time.RFC3339),
	}

	for k, v := range tickData {
		data[k] = v
	}

	return map[string]models.NodeResult{
		TriggerOutputPortSuccess: {
			NodeID: n.id,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *ScheduleTriggerNode) Cleanup(_ context.Context) error {
	return nil
}
