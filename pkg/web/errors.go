package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/graphion-dev/graphion/pkg/persistence"
	"github.com/graphion-dev/graphion/pkg/workflow"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// validationProblem reports every structural error a workflow check found.
func validationProblem(c fiber.Ctx, result *workflow.ValidationResult) error {
	problem := problems.NewStatusProblem(422).
		WithInstance(c.Path()).
		WithType("workflow_invalid").
		WithDetail(strings.Join(result.Errors, "; "))

	return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
}

// handleEngineError maps engine error types to problem responses.
func handleEngineError(c fiber.Ctx, err error) error {
	var validationErr *workflow.ValidationError
	if errors.As(err, &validationErr) {
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("workflow_invalid").
			WithDetail(validationErr.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
	}

	var noTriggerErr *workflow.NoTriggerError
	if errors.As(err, &noTriggerErr) {
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("no_trigger").
			WithDetail(noTriggerErr.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
	}

	var initErr *workflow.NodeInitializationError
	if errors.As(err, &initErr) {
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("node_initialization_failed").
			WithDetail(initErr.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
	}

	if persistence.IsWorkflowNotFound(err) {
		return notFound(c, "workflow not found")
	}

	return internalError(c, err)
}
