package file

import (
	"context"
	"testing"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow(id string) *models.Workflow {
	return &models.Workflow{
		ID:   id,
		Name: "sample",
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: models.NodeTypeTriggerManual},
			{ID: "log", Type: "log", Config: map[string]any{"message": "hi"}},
		},
		Connections: []*models.Connection{
			{Source: "start", SourcePort: "success", Target: "log", TargetPort: "main"},
		},
	}
}

func TestFilePersistence_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	require.NoError(t, store.SaveWorkflow(ctx, sampleWorkflow("wf-1")))

	loaded, err := store.WorkflowByID(ctx, "wf-1")

	require.NoError(t, err)
	assert.Equal(t, "wf-1", loaded.ID)
	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "hi", loaded.Nodes[1].Config["message"])
	require.Len(t, loaded.Connections, 1)
	assert.Equal(t, "success", loaded.Connections[0].SourcePort)
}

func TestFilePersistence_ListSortedByID(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	require.NoError(t, store.SaveWorkflow(ctx, sampleWorkflow("b")))
	require.NoError(t, store.SaveWorkflow(ctx, sampleWorkflow("a")))

	workflows, err := store.Workflows(ctx)

	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "a", workflows[0].ID)
	assert.Equal(t, "b", workflows[1].ID)
}

func TestFilePersistence_EmptyStore(t *testing.T) {
	store := NewPersistence(t.TempDir())

	workflows, err := store.Workflows(context.Background())

	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestFilePersistence_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	_, err := store.WorkflowByID(ctx, "missing")

	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestFilePersistence_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	require.NoError(t, store.SaveWorkflow(ctx, sampleWorkflow("wf-1")))
	require.NoError(t, store.DeleteWorkflow(ctx, "wf-1"))

	_, err := store.WorkflowByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.DeleteWorkflow(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestFilePersistence_RejectsEmptyID(t *testing.T) {
	store := NewPersistence(t.TempDir())

	err := store.SaveWorkflow(context.Background(), &models.Workflow{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow id is required")
}

func TestFilePersistence_StripsFileScheme(t *testing.T) {
	dir := t.TempDir()
	store := NewPersistence("file://" + dir)

	require.NoError(t, store.SaveWorkflow(context.Background(), sampleWorkflow("wf-1")))

	loaded, err := store.WorkflowByID(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", loaded.ID)
}
