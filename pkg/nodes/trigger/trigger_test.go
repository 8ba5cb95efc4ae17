package trigger

import (
	"context"
	"testing"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTriggerNode_ForwardsInput(t *testing.T) {
	node, err := NewManualTriggerNode("start", nil)
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		TriggerInputPortExternal: map[string]any{"order_id": "o-1"},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)
	require.Contains(t, result, TriggerOutputPortSuccess)
	assert.Equal(t, "o-1", result[TriggerOutputPortSuccess].Data["order_id"])
	assert.Equal(t, models.ResultStatusSuccess, result[TriggerOutputPortSuccess].Status)
}

func TestManualTriggerNode_EmptyInput(t *testing.T) {
	node, err := NewManualTriggerNode("start", nil)
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), testutil.NewNodeContext(nil))

	require.NoError(t, err)
	assert.NotNil(t, result[TriggerOutputPortSuccess].Data)
	assert.Empty(t, result[TriggerOutputPortSuccess].Data)
}

func TestNewScheduleTriggerNode_ValidatesCronExpression(t *testing.T) {
	_, err := NewScheduleTriggerNode("sched", map[string]any{
		"cron_expression": "not a cron",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")

	_, err = NewScheduleTriggerNode("sched", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron_expression is required")
}

func TestScheduleTriggerNode_EmitsTickData(t *testing.T) {
	node, err := NewScheduleTriggerNode("sched", map[string]any{
		"cron_expression": "*/5 * * * *",
		"timezone":        "Europe/Lisbon",
	})
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		TriggerInputPortExternal: map[string]any{"timestamp": "2026-01-01T00:00:00Z"},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)

	data := result[TriggerOutputPortSuccess].Data
	assert.Equal(t, "*/5 * * * *", data["cron_expression"])
	assert.Equal(t, "Europe/Lisbon", data["timezone"])
	assert.Equal(t, "2026-01-01T00:00:00Z", data["timestamp"])
	assert.NotEmpty(t, data["fired_at"])
}
