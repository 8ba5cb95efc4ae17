// Package workflow implements the graph execution engine: validation, node
// lifecycle, depth-first dispatch, and run bookkeeping.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/graphion-dev/graphion/pkg/eventbus"
	"github.com/graphion-dev/graphion/pkg/events"
	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"go.opentelemetry.io/otel/trace"
)

// NodeRegistry is the catalog the engine consumes: node construction plus
// type metadata for trigger identification.
type NodeRegistry interface {
	CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (protocol.Node, error)
	NodeMetadata(nodeType string) (protocol.NodeMetadata, bool)
}

// Engine executes workflows end-to-end: validate, instantiate nodes, walk
// from each trigger, assemble the result, clean up, record history. It also
// tracks in-flight runs and supports cooperative cancellation.
type Engine struct {
	logger    *slog.Logger
	registry  NodeRegistry
	validator *Validator
	walker    *Walker
	publisher eventbus.EventPublisher
	tracer    trace.Tracer

	mu     sync.Mutex
	active map[string]*Execution

	history *History
	options Options
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDefaultOptions sets the run options used when ExecuteWorkflow receives
// none.
func WithDefaultOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.options = opts.withDefaults()
	}
}

// WithHistoryCapacity bounds the run history.
func WithHistoryCapacity(capacity int) EngineOption {
	return func(e *Engine) {
		e.history = NewHistory(capacity)
	}
}

// WithEventPublisher attaches an event publisher for lifecycle events.
func WithEventPublisher(publisher eventbus.EventPublisher) EngineOption {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithTracer attaches a tracer for per-dispatch spans.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// NewEngine creates a workflow engine backed by the given node registry.
func NewEngine(logger *slog.Logger, registry NodeRegistry, opts ...EngineOption) *Engine {
	engine := &Engine{
		logger:    logger.With("module", "engine"),
		registry:  registry,
		validator: NewValidator(),
		active:    map[string]*Execution{},
		history:   NewHistory(DefaultHistoryCapacity),
		options:   DefaultOptions(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	engine.walker = NewWalker(engine.logger, engine.publisher, engine.tracer)

	return engine
}

// Validate checks a workflow without executing it.
func (e *Engine) Validate(wf *models.Workflow) *ValidationResult {
	return e.validator.Validate(wf)
}

// ExecuteWorkflow runs one workflow to completion and returns the execution
// result. Validation failure, a missing trigger, and node initialization
// failure abort the run before any dispatch. Cleanup and the history record
// happen on every path, including failure and external stop.
func (e *Engine) ExecuteWorkflow(ctx context.Context, wf *models.Workflow, triggerInput map[string]any, opts *Options) (*models.ExecutionResult, error) {
	runOpts := e.options
	if opts != nil {
		runOpts = opts.withDefaults()
	}

	execution := NewExecution(uuid.New().String(), wf, runOpts, e.logger)

	e.mu.Lock()
	e.active[execution.ID] = execution
	e.mu.Unlock()

	result, err := e.run(ctx, execution, triggerInput)

	e.finalize(ctx, execution)

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Engine) run(ctx context.Context, execution *Execution, triggerInput map[string]any) (*models.ExecutionResult, error) {
	logger := execution.Logger()

	validation := e.validator.Validate(execution.Workflow)
	if !validation.Valid {
		err := &ValidationError{WorkflowID: execution.WorkflowID, Errors: validation.Errors}
		e.fail(execution, "", err)

		return nil, err
	}

	if err := e.initializeNodes(ctx, execution); err != nil {
		e.fail(execution, "", err)
		return nil, err
	}

	triggers := e.triggerNodes(execution.Workflow)
	if len(triggers) == 0 {
		err := &NoTriggerError{WorkflowID: execution.WorkflowID}
		e.fail(execution, "", err)

		return nil, err
	}

	e.publish(ctx, execution, events.ExecutionStarted{
		BaseEvent:    events.NewBaseEvent(events.ExecutionStartedEvent, execution.WorkflowID, execution.ID),
		TriggerNodes: triggers,
	})

	logger.Info("execution started", "trigger_count", len(triggers))

	for _, triggerID := range triggers {
		_, err := e.walker.ExecuteFrom(ctx, execution, triggerID, triggerInput)
		if err == nil {
			continue
		}

		var stopped *ExecutionStoppedError
		if errors.As(err, &stopped) {
			logger.Info("execution stopped during walk")

			return execution.Result(), nil
		}

		if !execution.Options.ContinueOnTriggerFailure || haltsWalk(err) {
			e.fail(execution, triggerID, err)
			return nil, err
		}

		logger.Warn("trigger walk failed, continuing with remaining triggers",
			"trigger_node_id", triggerID, "error", err)
	}

	if execution.Finish(models.ExecutionStatusCompleted) {
		e.publish(ctx, execution, events.ExecutionCompleted{
			BaseEvent:  events.NewBaseEvent(events.ExecutionCompletedEvent, execution.WorkflowID, execution.ID),
			Duration:   execution.Summary().Duration,
			ErrorCount: len(execution.Errors()),
		})

		logger.Info("execution completed", "error_count", len(execution.Errors()))
	}

	return execution.Result(), nil
}

// initializeNodes constructs and initializes one node instance per workflow
// node. It fails fast: the first node that cannot be built aborts the run,
// and partial initialization is never left behind (finalize cleans up the
// instances built so far).
func (e *Engine) initializeNodes(ctx context.Context, execution *Execution) error {
	for _, def := range execution.Workflow.Nodes {
		node, err := e.registry.CreateNode(ctx, def.Type, def.ID, def.Config)
		if err != nil {
			return &NodeInitializationError{NodeID: def.ID, Err: err}
		}

		if err := node.Initialize(ctx); err != nil {
			return &NodeInitializationError{NodeID: def.ID, Err: err}
		}

		execution.AddNode(&NodeInstance{
			ID:     def.ID,
			Type:   def.Type,
			Node:   node,
			Status: models.NodeStatusInitialized,
		})
	}

	return nil
}

// triggerNodes returns the ids of all trigger-category nodes in definition
// order.
func (e *Engine) triggerNodes(wf *models.Workflow) []string {
	var triggers []string

	for _, node := range wf.Nodes {
		metadata, ok := e.registry.NodeMetadata(node.Type)
		if ok && metadata.Category == models.CategoryTypeTrigger {
			triggers = append(triggers, node.ID)
		}
	}

	return triggers
}

func (e *Engine) fail(execution *Execution, nodeID string, err error) {
	execution.AppendError(nodeID, err.Error())

	if execution.Finish(models.ExecutionStatusFailed) {
		execution.Logger().Error("execution failed", "error", err)
	}
}

// finalize runs node cleanup, emits the terminal event, and moves the run
// from the active table into history, exactly once per run. StopExecution
// and the unwinding walk may both reach it; the second caller is a no-op.
func (e *Engine) finalize(ctx context.Context, execution *Execution) {
	execution.FinalizeOnce(func() {
		execution.Finish(models.ExecutionStatusCompleted)

		e.cleanupNodes(ctx, execution)

		summary := execution.Summary()

		switch summary.Status {
		case models.ExecutionStatusFailed:
			e.publish(ctx, execution, events.ExecutionFailed{
				BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, execution.WorkflowID, execution.ID),
				Duration:  summary.Duration,
				Error:     lastErrorMessage(execution),
			})
		case models.ExecutionStatusStopped:
			e.publish(ctx, execution, events.ExecutionStopped{
				BaseEvent: events.NewBaseEvent(events.ExecutionStoppedEvent, execution.WorkflowID, execution.ID),
				Duration:  summary.Duration,
			})
		}

		e.history.Append(summary)

		e.mu.Lock()
		delete(e.active, execution.ID)
		e.mu.Unlock()
	})
}

// cleanupNodes invokes every instance's Cleanup hook. Cleanup failures are
// logged as warnings and never block finalization.
func (e *Engine) cleanupNodes(ctx context.Context, execution *Execution) {
	for _, instance := range execution.Nodes() {
		if err := instance.Node.Cleanup(ctx); err != nil {
			execution.Logger().Warn("node cleanup failed",
				"node_id", instance.ID, "error", err)
		}
	}
}

// ActiveExecutions returns a snapshot of all currently running runs.
func (e *Engine) ActiveExecutions() []models.ExecutionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summaries := make([]models.ExecutionSummary, 0, len(e.active))
	for _, execution := range e.active {
		summaries = append(summaries, execution.Summary())
	}

	return summaries
}

// ExecutionHistory returns up to limit finished runs, newest first.
func (e *Engine) ExecutionHistory(limit int) []models.ExecutionSummary {
	return e.history.Recent(limit)
}

// StopExecution cooperatively stops an active run. It returns true exactly
// once for a genuinely active run; false for unknown or already-finished
// ids. A node Execute call already in progress is not interrupted: the walk
// halts at the next dispatch and the in-flight call's result is discarded.
func (e *Engine) StopExecution(ctx context.Context, executionID string) bool {
	e.mu.Lock()
	execution, ok := e.active[executionID]
	e.mu.Unlock()

	if !ok {
		return false
	}

	if !execution.Finish(models.ExecutionStatusStopped) {
		return false
	}

	execution.Logger().Info("execution stopped by request")

	e.finalize(ctx, execution)

	return true
}

func (e *Engine) publish(ctx context.Context, execution *Execution, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, execution.ID, event); err != nil {
		e.logger.Warn("failed to publish event",
			"execution_id", execution.ID,
			"event_type", event.GetType(),
			"error", err)
	}
}

func lastErrorMessage(execution *Execution) string {
	errs := execution.Errors()
	if len(errs) == 0 {
		return ""
	}

	return errs[len(errs)-1].Message
}
