package merge

import (
	"context"
	"testing"

	"github.com/graphion-dev/graphion/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNode_ShallowMerge(t *testing.T) {
	node, err := NewMergeNode("join", nil)
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		"main": map[string]any{"base": 1, "x": "from-main"},
		"a":    map[string]any{"x": "from-a"},
		"b":    map[string]any{"y": "from-b"},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)
	require.Contains(t, result, OutputPortSuccess)

	data := result[OutputPortSuccess].Data
	assert.Equal(t, 1, data["base"])
	assert.Equal(t, "from-a", data["x"], "later ports override earlier ones")
	assert.Equal(t, "from-b", data["y"])
}

func TestMergeNode_IgnoresAbsentPorts(t *testing.T) {
	node, err := NewMergeNode("join", nil)
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		"a": map[string]any{"x": 1},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, result[OutputPortSuccess].Data)
}

func TestMergeNode_EmptyInputs(t *testing.T) {
	node, err := NewMergeNode("join", nil)
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), testutil.NewNodeContext(nil))

	require.NoError(t, err)
	assert.Empty(t, result[OutputPortSuccess].Data)
}
