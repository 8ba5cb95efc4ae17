package log

import (
	"context"
	"testing"

	"github.com/graphion-dev/graphion/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNode_RendersMessage(t *testing.T) {
	node, err := NewLogNode("logger", map[string]any{
		"message": "processed {{.inputs.main.count}} items",
		"level":   "warn",
	})
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		"main": map[string]any{"count": 3},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)
	require.Contains(t, result, OutputPortSuccess)

	data := result[OutputPortSuccess].Data
	assert.Equal(t, "processed 3 items", data["message"])
	assert.Equal(t, "warn", data["level"])
	assert.Equal(t, true, data["logged"])
}

func TestNewLogNode_RejectsInvalidLevel(t *testing.T) {
	_, err := NewLogNode("logger", map[string]any{
		"message": "x",
		"level":   "loud",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLogNode_RenderFailureGoesToErrorPort(t *testing.T) {
	node, err := NewLogNode("logger", map[string]any{"message": "{{.broken"})
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), testutil.NewNodeContext(nil))

	require.NoError(t, err)
	require.Contains(t, result, OutputPortError)
}
