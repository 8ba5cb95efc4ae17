package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/graphion-dev/graphion/pkg/eventbus"
	"github.com/graphion-dev/graphion/pkg/events"
	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Dispatch is the record of one node invocation and the downstream dispatches
// it triggered.
type Dispatch struct {
	NodeID           string                       `json:"node_id"`
	Result           map[string]models.NodeResult `json:"result"`
	ConnectedResults []*Dispatch                  `json:"connected_results,omitempty"`
	Duration         time.Duration                `json:"duration"`
}

// Walker dispatches nodes depth-first along the workflow's connections.
//
// The walk is strictly sequential within one run: a node's downstream targets
// are dispatched one after another, each awaited to completion. A node fed by
// multiple upstream branches is dispatched once per triggering branch with
// only that branch's data; there is no join barrier.
type Walker struct {
	logger    *slog.Logger
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
}

// NewWalker creates a graph walker. The publisher and tracer may be nil.
func NewWalker(logger *slog.Logger, publisher eventbus.EventPublisher, tracer trace.Tracer) *Walker {
	return &Walker{
		logger:    logger.With("module", "walker"),
		publisher: publisher,
		tracer:    tracer,
	}
}

// ExecuteFrom dispatches the given node with the given input data, then walks
// its outgoing connections. Only output ports the node actually populated
// fire their connections; an unpopulated port suppresses the branch wired to
// it. A failure inside one downstream target's recursive dispatch is caught
// and logged, and the remaining sibling targets still run.
func (w *Walker) ExecuteFrom(ctx context.Context, execution *Execution, nodeID string, inputData map[string]any) (*Dispatch, error) {
	if execution.Status() != models.ExecutionStatusRunning {
		return nil, &ExecutionStoppedError{ExecutionID: execution.ID}
	}

	if execution.Options.Timeout > 0 && execution.Elapsed() > execution.Options.Timeout {
		err := &ExecutionTimeoutError{ExecutionID: execution.ID, Timeout: execution.Options.Timeout}
		execution.AppendError("", err.Error())

		return nil, err
	}

	instance, ok := execution.Node(nodeID)
	if !ok {
		err := &NodeNotFoundError{NodeID: nodeID}
		execution.AppendError(nodeID, err.Error())

		return nil, err
	}

	if instance.ExecutionCount >= execution.Options.MaxNodeExecutions {
		err := &ExecutionLimitError{NodeID: nodeID, Limit: execution.Options.MaxNodeExecutions}
		execution.AppendError(nodeID, err.Error())

		return nil, err
	}

	if !execution.CountDispatch() {
		err := &ExecutionLimitError{Limit: execution.Options.MaxTotalDispatches}
		execution.AppendError(nodeID, err.Error())

		return nil, err
	}

	instance.Status = models.NodeStatusExecuting
	instance.ExecutionCount++

	startedAt := time.Now().UTC()
	instance.StartedAt = &startedAt

	nodeCtx := newNodeContext(execution, nodeID, inputData)

	spanCtx := ctx

	var span trace.Span

	if w.tracer != nil {
		spanCtx, span = otelhelper.StartSpan(ctx, w.tracer, "node.execute",
			attribute.String(otelhelper.WorkflowIDKey, execution.WorkflowID),
			attribute.String(otelhelper.ExecutionIDKey, execution.ID),
			attribute.String(otelhelper.NodeIDKey, nodeID),
			attribute.String(otelhelper.NodeTypeKey, instance.Type),
		)
		defer span.End()
	}

	result, execErr := instance.Node.Execute(spanCtx, nodeCtx)

	finishedAt := time.Now().UTC()
	instance.FinishedAt = &finishedAt
	duration := finishedAt.Sub(startedAt)

	if execErr != nil {
		instance.Status = models.NodeStatusFailed
		instance.Error = execErr.Error()

		wrapped := &NodeExecutionError{NodeID: nodeID, Err: execErr}
		execution.AppendError(nodeID, wrapped.Error())

		if span != nil {
			otelhelper.SetError(span, execErr)
		}

		w.publish(ctx, execution, events.NodeFailed{
			BaseEvent:  events.NewBaseEvent(events.NodeFailedEvent, execution.WorkflowID, execution.ID),
			NodeID:     nodeID,
			NodeType:   instance.Type,
			Error:      execErr.Error(),
			DurationMs: duration.Milliseconds(),
		})

		return nil, wrapped
	}

	instance.Status = models.NodeStatusCompleted
	instance.LastResult = result
	instance.Error = ""

	w.publish(ctx, execution, events.NodeCompleted{
		BaseEvent:   events.NewBaseEvent(events.NodeCompletedEvent, execution.WorkflowID, execution.ID),
		NodeID:      nodeID,
		NodeType:    instance.Type,
		Status:      instance.Status,
		OutputPorts: portNames(result),
		DurationMs:  duration.Milliseconds(),
	})

	dispatch := &Dispatch{
		NodeID:   nodeID,
		Result:   result,
		Duration: duration,
	}

	if err := w.propagate(ctx, execution, nodeID, result, dispatch); err != nil {
		return dispatch, err
	}

	return dispatch, nil
}

// propagate walks the outgoing connections of a completed node. Connections
// are grouped by target, so a target reachable through several populated
// ports is dispatched once with all matching port values merged.
func (w *Walker) propagate(ctx context.Context, execution *Execution, nodeID string, result map[string]models.NodeResult, dispatch *Dispatch) error {
	outgoing := execution.Workflow.OutgoingConnections(nodeID)
	if len(outgoing) == 0 {
		return nil
	}

	var targets []string

	targetConns := map[string][]*models.Connection{}

	for _, conn := range outgoing {
		if _, seen := targetConns[conn.Target]; !seen {
			targets = append(targets, conn.Target)
		}

		targetConns[conn.Target] = append(targetConns[conn.Target], conn)
	}

	for _, target := range targets {
		targetInput := map[string]any{}
		fired := false

		for _, conn := range targetConns[target] {
			if portResult, ok := result[conn.SourcePort]; ok {
				fired = true
				targetInput[conn.TargetPort] = portResult.Data
			}
		}

		if !fired {
			continue
		}

		child, err := w.ExecuteFrom(ctx, execution, target, targetInput)
		if err != nil {
			if haltsWalk(err) {
				return err
			}

			w.logger.Warn("downstream dispatch failed, continuing with siblings",
				"execution_id", execution.ID,
				"source_node_id", nodeID,
				"target_node_id", target,
				"error", err)

			continue
		}

		dispatch.ConnectedResults = append(dispatch.ConnectedResults, child)
	}

	return nil
}

// haltsWalk reports whether an error must abort the whole walk instead of
// being isolated at the fan-out.
func haltsWalk(err error) bool {
	var stopped *ExecutionStoppedError
	if errors.As(err, &stopped) {
		return true
	}

	var timeout *ExecutionTimeoutError

	return errors.As(err, &timeout)
}

func (w *Walker) publish(ctx context.Context, execution *Execution, event eventbus.Event) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.Publish(ctx, execution.ID, event); err != nil {
		w.logger.Warn("failed to publish event",
			"execution_id", execution.ID,
			"event_type", event.GetType(),
			"error", err)
	}
}

func portNames(result map[string]models.NodeResult) []string {
	ports := make([]string, 0, len(result))
	for port := range result {
		ports = append(ports, port)
	}

	sort.Strings(ports)

	return ports
}
