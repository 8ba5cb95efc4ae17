// Package web provides HTTP handlers for workflow management and execution.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/persistence"
	"github.com/graphion-dev/graphion/pkg/registry"
	"github.com/graphion-dev/graphion/pkg/workflow"
)

type APIHandlers struct {
	engine      *workflow.Engine
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewAPIHandlers(
	engine *workflow.Engine,
	store persistence.Persistence,
	reg *registry.Registry,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		engine:      engine,
		persistence: store,
		registry:    reg,
		validator:   validate,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.persistence.Workflows(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.persistence.WorkflowByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) SaveWorkflow(c fiber.Ctx) error {
	var wf models.Workflow
	if err := c.Bind().JSON(&wf); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(&wf); err != nil {
		return badRequest(c, err.Error())
	}

	if validation := h.engine.Validate(&wf); !validation.Valid {
		problem := validationProblem(c, validation)
		return problem
	}

	if err := h.persistence.SaveWorkflow(c.Context(), &wf); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(&wf)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.persistence.DeleteWorkflow(c.Context(), id); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateWorkflow checks an inline workflow definition without executing it.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var wf models.Workflow
	if err := c.Bind().JSON(&wf); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	return c.JSON(h.engine.Validate(&wf))
}

// ExecuteWorkflow runs a stored workflow synchronously and returns the
// execution result.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.persistence.WorkflowByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	var req ExecuteWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result, err := h.engine.ExecuteWorkflow(c.Context(), wf, req.Input, executionOptions(req.Options))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(result)
}

// ExecuteInlineWorkflow runs a workflow definition supplied in the request
// body, without persisting it.
func (h *APIHandlers) ExecuteInlineWorkflow(c fiber.Ctx) error {
	var req struct {
		Workflow *models.Workflow       `json:"workflow"`
		Input    map[string]any         `json:"input,omitempty"`
		Options  *ExecutionOptionsInput `json:"options,omitempty"`
	}

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if req.Workflow == nil {
		return badRequest(c, "Workflow definition is required")
	}

	result, err := h.engine.ExecuteWorkflow(c.Context(), req.Workflow, req.Input, executionOptions(req.Options))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetActiveExecutions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"executions": h.engine.ActiveExecutions(),
	})
}

func (h *APIHandlers) GetExecutionHistory(c fiber.Ctx) error {
	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		limit = parsed
	}

	return c.JSON(fiber.Map{
		"executions": h.engine.ExecutionHistory(limit),
	})
}

func (h *APIHandlers) StopExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	stopped := h.engine.StopExecution(c.Context(), id)

	status := fiber.StatusOK
	if !stopped {
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(StopExecutionResponse{
		ExecutionID: id,
		Stopped:     stopped,
		Timestamp:   time.Now().UTC(),
	})
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types := h.registry.NodeTypes()

	catalog := make([]any, 0, len(types))

	for _, nodeType := range types {
		if metadata, ok := h.registry.NodeMetadata(nodeType); ok {
			catalog = append(catalog, metadata)
		}
	}

	return c.JSON(fiber.Map{
		"node_types": catalog,
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

func executionOptions(input *ExecutionOptionsInput) *workflow.Options {
	if input == nil {
		return nil
	}

	return &workflow.Options{
		Timeout:                  time.Duration(input.TimeoutSeconds) * time.Second,
		MaxNodeExecutions:        input.MaxNodeExecutions,
		MaxTotalDispatches:       input.MaxTotalDispatches,
		ContinueOnTriggerFailure: input.ContinueOnTriggerFailure,
	}
}
