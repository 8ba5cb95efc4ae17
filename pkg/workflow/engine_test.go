package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/graphion-dev/graphion/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"log/slog"
)

type stubNode struct {
	id      string
	typ     string
	execute func(ctx context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error)
}

func (n *stubNode) ID() string   { return n.id }
func (n *stubNode) Type() string { return n.typ }

func (n *stubNode) Initialize(_ context.Context) error {
	return nil
}

func (n *stubNode) Execute(ctx context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	return n.execute(ctx, nodeCtx)
}

func (n *stubNode) Cleanup(_ context.Context) error {
	return nil
}

type stubFactory struct {
	id        string
	category  models.CategoryType
	createErr error
	execute   func(ctx context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error)
}

func (f *stubFactory) Create(_ context.Context, id string, _ map[string]any) (protocol.Node, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	return &stubNode{id: id, typ: f.id, execute: f.execute}, nil
}

func (f *stubFactory) ID() string                    { return f.id }
func (f *stubFactory) Name() string                  { return f.id }
func (f *stubFactory) Description() string           { return "test node" }
func (f *stubFactory) Category() models.CategoryType { return f.category }
func (f *stubFactory) InputPorts() []string          { return []string{"main"} }
func (f *stubFactory) OutputPorts() []string         { return []string{"success", "error"} }
func (f *stubFactory) Schema() map[string]any        { return nil }

func successResult(nodeID string, data map[string]any) map[string]models.NodeResult {
	return map[string]models.NodeResult{
		"success": {
			NodeID: nodeID,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}
}

func testRegistry(t *testing.T, extra ...*stubFactory) *registry.Registry {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	for _, factory := range extra {
		reg.RegisterNode(factory)
	}

	return reg
}

func testEngine(t *testing.T, extra ...*stubFactory) *Engine {
	t.Helper()

	return NewEngine(slog.Default(), testRegistry(t, extra...))
}

func connect(source, sourcePort, target, targetPort string) *models.Connection {
	return &models.Connection{
		Source:     source,
		SourcePort: sourcePort,
		Target:     target,
		TargetPort: targetPort,
	}
}

func nodeSummary(t *testing.T, result *models.ExecutionResult, nodeID string) models.NodeSummary {
	t.Helper()

	for _, summary := range result.Nodes {
		if summary.NodeID == nodeID {
			return summary
		}
	}

	t.Fatalf("node %s not found in result", nodeID)

	return models.NodeSummary{}
}

func TestEngine_ExecuteWorkflow_EndToEnd(t *testing.T) {
	engine := testEngine(t)

	wf := &models.Workflow{
		ID: "hello",
		Nodes: []*models.WorkflowNode{
			{ID: "1", Type: "trigger:manual"},
			{ID: "2", Type: "log", Config: map[string]any{"message": "foo is {{.inputs.main.foo}}"}},
		},
		Connections: []*models.Connection{
			connect("1", "success", "2", "main"),
		},
	}

	result, err := engine.ExecuteWorkflow(context.Background(), wf, map[string]any{"foo": "bar"}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, result.Status)
	assert.Empty(t, result.Errors)

	logNode := nodeSummary(t, result, "2")
	assert.Equal(t, models.NodeStatusCompleted, logNode.Status)
	assert.Equal(t, 1, logNode.ExecutionCount)
}

func TestEngine_BranchSuppression(t *testing.T) {
	engine := testEngine(t)

	wf := &models.Workflow{
		ID: "branching",
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: "trigger:manual"},
			{ID: "check", Type: "conditional", Config: map[string]any{"condition": "{{.inputs.main.flag}}"}},
			{ID: "taken", Type: "log", Config: map[string]any{"message": "taken"}},
			{ID: "skipped", Type: "log", Config: map[string]any{"message": "skipped"}},
		},
		Connections: []*models.Connection{
			connect("start", "success", "check", "main"),
			connect("check", "true", "taken", "main"),
			connect("check", "false", "skipped", "main"),
		},
	}

	result, err := engine.ExecuteWorkflow(context.Background(), wf, map[string]any{"flag": true}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, result.Status)

	assert.Equal(t, 1, nodeSummary(t, result, "taken").ExecutionCount)
	assert.Equal(t, 0, nodeSummary(t, result, "skipped").ExecutionCount)
	assert.Equal(t, models.NodeStatusInitialized, nodeSummary(t, result, "skipped").Status)
}

func TestEngine_SiblingIsolationAtFanOut(t *testing.T) {
	failing := &stubFactory{
		id:       "test:fail",
		category: models.CategoryTypeAction,
		execute: func(_ context.Context, _ protocol.NodeContext) (map[string]models.NodeResult, error) {
			return nil, errors.New("boom")
		},
	}

	engine := testEngine(t, failing)

	wf := &models.Workflow{
		ID: "fan-out",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "x", Type: "test:fail"},
			{ID: "y", Type: "log", Config: map[string]any{"message": "still here"}},
		},
		Connections: []*models.Connection{
			connect("t", "success", "x", "main"),
			connect("t", "success", "y", "main"),
		},
	}

	result, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, result.Status)

	assert.Equal(t, models.NodeStatusFailed, nodeSummary(t, result, "x").Status)
	assert.Equal(t, 1, nodeSummary(t, result, "y").ExecutionCount)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "x", result.Errors[0].NodeID)
	assert.Contains(t, result.Errors[0].Message, "boom")
}

func TestEngine_FanInRedispatchesPerBranch(t *testing.T) {
	engine := testEngine(t)

	wf := diamondWorkflow()

	result, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, result.Status)

	// No join barrier: the shared target runs once per upstream branch.
	assert.Equal(t, 2, nodeSummary(t, result, "join").ExecutionCount)
}

func TestEngine_ExecutionCap(t *testing.T) {
	engine := testEngine(t)

	wf := diamondWorkflow()

	opts := Options{MaxNodeExecutions: 1}

	result, err := engine.ExecuteWorkflow(context.Background(), wf, nil, &opts)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, result.Status)

	// The second branch's dispatch hits the cap and is isolated at that
	// branch's fan-out.
	assert.Equal(t, 1, nodeSummary(t, result, "join").ExecutionCount)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "exceeded execution limit of 1")
}

func diamondWorkflow() *models.Workflow {
	return &models.Workflow{
		ID: "diamond",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "left", Type: "log", Config: map[string]any{"message": "left"}},
			{ID: "right", Type: "log", Config: map[string]any{"message": "right"}},
			{ID: "join", Type: "log", Config: map[string]any{"message": "join"}},
		},
		Connections: []*models.Connection{
			connect("t", "success", "left", "main"),
			connect("t", "success", "right", "main"),
			connect("left", "success", "join", "main"),
			connect("right", "success", "join", "main"),
		},
	}
}

func TestEngine_ValidationFailure(t *testing.T) {
	engine := testEngine(t)

	wf := &models.Workflow{
		ID: "bad",
		Nodes: []*models.WorkflowNode{
			{ID: "a", Type: "log", Config: map[string]any{"message": "a"}},
		},
		Connections: []*models.Connection{
			connect("a", "success", "ghost", "main"),
		},
	}

	_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

	var validationErr *ValidationError

	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)

	history := engine.ExecutionHistory(1)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusFailed, history[0].Status)

	assert.Empty(t, engine.ActiveExecutions())
}

func TestEngine_NoTrigger(t *testing.T) {
	engine := testEngine(t)

	wf := &models.Workflow{
		ID: "no-trigger",
		Nodes: []*models.WorkflowNode{
			{ID: "a", Type: "log", Config: map[string]any{"message": "a"}},
		},
	}

	_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

	var noTriggerErr *NoTriggerError

	require.ErrorAs(t, err, &noTriggerErr)
}

func TestEngine_NodeInitializationFailure(t *testing.T) {
	broken := &stubFactory{
		id:        "test:broken",
		category:  models.CategoryTypeAction,
		createErr: errors.New("cannot construct"),
	}

	engine := testEngine(t, broken)

	wf := &models.Workflow{
		ID: "init-fail",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "b", Type: "test:broken"},
		},
		Connections: []*models.Connection{
			connect("t", "success", "b", "main"),
		},
	}

	_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

	var initErr *NodeInitializationError

	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "b", initErr.NodeID)
}

func TestEngine_StopExecution(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	blocker := &stubFactory{
		id:       "test:block",
		category: models.CategoryTypeAction,
		execute: func(_ context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
			close(started)
			<-release

			return successResult("blocker", nil), nil
		},
	}

	engine := testEngine(t, blocker)

	wf := &models.Workflow{
		ID: "stoppable",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "blocker", Type: "test:block"},
			{ID: "after", Type: "log", Config: map[string]any{"message": "never"}},
		},
		Connections: []*models.Connection{
			connect("t", "success", "blocker", "main"),
			connect("blocker", "success", "after", "main"),
		},
	}

	var (
		result *models.ExecutionResult
		runErr error
		wg     sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		result, runErr = engine.ExecuteWorkflow(context.Background(), wf, nil, nil)
	}()

	<-started

	active := engine.ActiveExecutions()
	require.Len(t, active, 1)

	executionID := active[0].ExecutionID

	assert.True(t, engine.StopExecution(context.Background(), executionID))
	assert.False(t, engine.StopExecution(context.Background(), executionID))

	close(release)
	wg.Wait()

	require.NoError(t, runErr)
	assert.Equal(t, models.ExecutionStatusStopped, result.Status)

	// The in-flight node finished, but nothing downstream of it ran.
	assert.Equal(t, 0, nodeSummary(t, result, "after").ExecutionCount)

	history := engine.ExecutionHistory(0)
	require.Len(t, history, 1)
	assert.Equal(t, executionID, history[0].ExecutionID)
	assert.Equal(t, models.ExecutionStatusStopped, history[0].Status)

	assert.Empty(t, engine.ActiveExecutions())
}

func TestEngine_StopExecution_UnknownID(t *testing.T) {
	engine := testEngine(t)

	assert.False(t, engine.StopExecution(context.Background(), "does-not-exist"))
}

func TestEngine_TriggerFailurePolicy(t *testing.T) {
	failingTrigger := &stubFactory{
		id:       "test:failing-trigger",
		category: models.CategoryTypeTrigger,
		execute: func(_ context.Context, _ protocol.NodeContext) (map[string]models.NodeResult, error) {
			return nil, errors.New("trigger exploded")
		},
	}

	wf := &models.Workflow{
		ID: "two-triggers",
		Nodes: []*models.WorkflowNode{
			{ID: "bad", Type: "test:failing-trigger"},
			{ID: "good", Type: "trigger:manual"},
			{ID: "out", Type: "log", Config: map[string]any{"message": "ran"}},
		},
		Connections: []*models.Connection{
			connect("good", "success", "out", "main"),
		},
	}

	t.Run("default aborts the run", func(t *testing.T) {
		engine := testEngine(t, failingTrigger)

		_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)

		var execErr *NodeExecutionError

		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "bad", execErr.NodeID)
	})

	t.Run("continue-on-trigger-failure isolates it", func(t *testing.T) {
		engine := testEngine(t, failingTrigger)

		opts := Options{ContinueOnTriggerFailure: true}

		result, err := engine.ExecuteWorkflow(context.Background(), wf, nil, &opts)

		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusCompleted, result.Status)
		assert.Equal(t, 1, nodeSummary(t, result, "out").ExecutionCount)

		require.NotEmpty(t, result.Errors)
		assert.Equal(t, "bad", result.Errors[0].NodeID)
	})
}

func TestEngine_Timeout(t *testing.T) {
	slow := &stubFactory{
		id:       "test:slow",
		category: models.CategoryTypeAction,
		execute: func(_ context.Context, _ protocol.NodeContext) (map[string]models.NodeResult, error) {
			time.Sleep(20 * time.Millisecond)

			return successResult("slow", nil), nil
		},
	}

	engine := testEngine(t, slow)

	wf := &models.Workflow{
		ID: "slow-run",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "s", Type: "test:slow"},
			{ID: "after", Type: "log", Config: map[string]any{"message": "late"}},
		},
		Connections: []*models.Connection{
			connect("t", "success", "s", "main"),
			connect("s", "success", "after", "main"),
		},
	}

	opts := Options{Timeout: time.Millisecond}

	_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, &opts)

	var timeoutErr *ExecutionTimeoutError

	require.ErrorAs(t, err, &timeoutErr)

	history := engine.ExecutionHistory(1)
	require.Len(t, history, 1)
	assert.Equal(t, models.ExecutionStatusFailed, history[0].Status)
}

func TestEngine_VariablesAreRunScoped(t *testing.T) {
	engine := testEngine(t)

	wf := &models.Workflow{
		ID: "vars",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
			{ID: "set", Type: "variable", Config: map[string]any{"name": "greeting", "value": "hello"}},
		},
		Connections: []*models.Connection{
			connect("t", "success", "set", "main"),
		},
	}

	first, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Variables["greeting"])

	// A fresh run starts from the workflow's declared variables only.
	second, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", second.Variables["greeting"])
	assert.Len(t, second.Variables, 1)
}

func TestEngine_HistoryBounding(t *testing.T) {
	const capacity = 3

	reg := testRegistry(t)
	engine := NewEngine(slog.Default(), reg, WithHistoryCapacity(capacity))

	wf := &models.Workflow{
		ID: "tiny",
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: "trigger:manual"},
		},
	}

	for i := 0; i < capacity*2; i++ {
		_, err := engine.ExecuteWorkflow(context.Background(), wf, nil, nil)
		require.NoError(t, err)
	}

	history := engine.ExecutionHistory(0)
	assert.Len(t, history, capacity)
}
