package workflow

import (
	"log/slog"
	"sync"
	"time"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
)

const (
	// DefaultMaxNodeExecutions caps how often one node may be dispatched in a
	// single run. This is the runaway-recursion safety valve for data-driven
	// re-entrancy the static cycle check cannot see.
	DefaultMaxNodeExecutions = 100

	// DefaultMaxTotalDispatches caps the total node dispatches of one run.
	DefaultMaxTotalDispatches = 1000

	// DefaultHistoryCapacity bounds the process-wide run history.
	DefaultHistoryCapacity = 1000
)

// Options configures one run.
type Options struct {
	// Timeout bounds the wall-clock duration of the run. Zero means no bound.
	// It is checked at each dispatch, not mid-node.
	Timeout time.Duration

	// MaxNodeExecutions caps per-node dispatches within the run.
	MaxNodeExecutions int

	// MaxTotalDispatches caps total dispatches within the run.
	MaxTotalDispatches int

	// ContinueOnTriggerFailure isolates trigger-level failures the same way
	// fan-out siblings are isolated: a failing trigger walk is recorded in the
	// run's error log and the remaining triggers still execute. When false, a
	// trigger failure fails the whole run.
	ContinueOnTriggerFailure bool
}

// DefaultOptions returns run options with the default safety bounds.
func DefaultOptions() Options {
	return Options{
		MaxNodeExecutions:  DefaultMaxNodeExecutions,
		MaxTotalDispatches: DefaultMaxTotalDispatches,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxNodeExecutions <= 0 {
		o.MaxNodeExecutions = DefaultMaxNodeExecutions
	}

	if o.MaxTotalDispatches <= 0 {
		o.MaxTotalDispatches = DefaultMaxTotalDispatches
	}

	return o
}

// NodeInstance is the per-run state of one workflow node. Instances are owned
// exclusively by one Execution and discarded with it.
type NodeInstance struct {
	ID             string
	Type           string
	Node           protocol.Node
	Status         models.NodeStatus
	ExecutionCount int
	LastResult     map[string]models.NodeResult
	StartedAt      *time.Time
	FinishedAt     *time.Time
	Error          string
}

// Summary reports the instance's final state for the execution result.
func (n *NodeInstance) Summary() models.NodeSummary {
	summary := models.NodeSummary{
		NodeID:         n.ID,
		Type:           n.Type,
		Status:         n.Status,
		ExecutionCount: n.ExecutionCount,
		StartedAt:      n.StartedAt,
		FinishedAt:     n.FinishedAt,
		Error:          n.Error,
	}

	if n.StartedAt != nil && n.FinishedAt != nil {
		summary.DurationMs = n.FinishedAt.Sub(*n.StartedAt).Milliseconds()
	}

	return summary
}

// Execution is the mutable state of one run. It is created per
// ExecuteWorkflow call and never shared between runs. The mutex guards status
// and the error log, which StopExecution may touch from another goroutine;
// node state is only touched by the sequential walk.
type Execution struct {
	ID         string
	WorkflowID string
	Workflow   *models.Workflow
	Options    Options

	finalizeOnce sync.Once

	mu              sync.Mutex
	status          models.ExecutionStatus
	errors          []models.ExecutionError
	startedAt       time.Time
	finishedAt      time.Time
	nodes           map[string]*NodeInstance
	variables       map[string]any
	totalDispatches int

	logger *slog.Logger
}

// NewExecution creates the run state for one workflow execution.
func NewExecution(id string, wf *models.Workflow, opts Options, logger *slog.Logger) *Execution {
	variables := map[string]any{}
	for key, value := range wf.Variables {
		variables[key] = value
	}

	return &Execution{
		ID:         id,
		WorkflowID: wf.ID,
		Workflow:   wf,
		Options:    opts.withDefaults(),
		status:     models.ExecutionStatusRunning,
		startedAt:  time.Now().UTC(),
		nodes:      map[string]*NodeInstance{},
		variables:  variables,
		logger:     logger.With("execution_id", id, "workflow_id", wf.ID),
	}
}

// Status returns the run's current lifecycle status.
func (e *Execution) Status() models.ExecutionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

// Finish transitions the run to a terminal status and stamps timing. The
// first terminal transition wins; later calls are no-ops and return false.
// This keeps a stopped run stopped even when its in-flight walk eventually
// unwinds and tries to mark the run completed.
func (e *Execution) Finish(status models.ExecutionStatus) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.Terminal() {
		return false
	}

	e.status = status
	e.finishedAt = time.Now().UTC()

	return true
}

// StartedAt returns the run's start time.
func (e *Execution) StartedAt() time.Time {
	return e.startedAt
}

// Elapsed returns the wall-clock time since the run started.
func (e *Execution) Elapsed() time.Duration {
	return time.Since(e.startedAt)
}

// AppendError records an error in the run's append-only error log.
func (e *Execution) AppendError(nodeID, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, models.ExecutionError{
		NodeID:    nodeID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// Errors returns a copy of the run's error log.
func (e *Execution) Errors() []models.ExecutionError {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ExecutionError, len(e.errors))
	copy(out, e.errors)

	return out
}

// AddNode registers a node instance under its workflow node id.
func (e *Execution) AddNode(instance *NodeInstance) {
	e.nodes[instance.ID] = instance
}

// Node returns the node instance for the given workflow node id.
func (e *Execution) Node(nodeID string) (*NodeInstance, bool) {
	instance, ok := e.nodes[nodeID]
	return instance, ok
}

// Nodes returns the run's node instances keyed by node id.
func (e *Execution) Nodes() map[string]*NodeInstance {
	return e.nodes
}

// CountDispatch increments the run's total dispatch counter and reports
// whether the total cap has been exceeded.
func (e *Execution) CountDispatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.totalDispatches++

	return e.totalDispatches <= e.Options.MaxTotalDispatches
}

// Variable reads a key from the run-scoped variable store.
func (e *Execution) Variable(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.variables[key]

	return value, ok
}

// SetVariable writes a key to the run-scoped variable store.
func (e *Execution) SetVariable(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[key] = value
}

// VariablesSnapshot returns a copy of the run's variable store.
func (e *Execution) VariablesSnapshot() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]any, len(e.variables))
	for key, value := range e.variables {
		out[key] = value
	}

	return out
}

// Logger returns the run-scoped logger.
func (e *Execution) Logger() *slog.Logger {
	return e.logger
}

// FinalizeOnce runs fn exactly once for this execution. StopExecution and
// the unwinding walk may both try to finalize; only the first caller's fn
// runs.
func (e *Execution) FinalizeOnce(fn func()) {
	e.finalizeOnce.Do(fn)
}

// Result builds the immutable snapshot returned to the caller.
func (e *Execution) Result() *models.ExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := make([]models.NodeSummary, 0, len(e.nodes))
	for _, node := range e.Workflow.Nodes {
		if instance, ok := e.nodes[node.ID]; ok {
			nodes = append(nodes, instance.Summary())
		}
	}

	errs := make([]models.ExecutionError, len(e.errors))
	copy(errs, e.errors)

	variables := make(map[string]any, len(e.variables))
	for key, value := range e.variables {
		variables[key] = value
	}

	finishedAt := e.finishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	return &models.ExecutionResult{
		ExecutionID: e.ID,
		WorkflowID:  e.WorkflowID,
		Status:      e.status,
		StartedAt:   e.startedAt,
		FinishedAt:  finishedAt,
		Duration:    finishedAt.Sub(e.startedAt),
		Nodes:       nodes,
		Errors:      errs,
		Variables:   variables,
	}
}

// Summary builds the compact form used by active-run and history queries.
func (e *Execution) Summary() models.ExecutionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := models.ExecutionSummary{
		ExecutionID: e.ID,
		WorkflowID:  e.WorkflowID,
		Status:      e.status,
		StartedAt:   e.startedAt,
		ErrorCount:  len(e.errors),
	}

	if e.status.Terminal() && !e.finishedAt.IsZero() {
		finished := e.finishedAt
		summary.FinishedAt = &finished
		summary.Duration = finished.Sub(e.startedAt)
	} else {
		summary.Duration = time.Since(e.startedAt)
	}

	return summary
}
