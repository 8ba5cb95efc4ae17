// Package main provides the Graphion API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/graphion-dev/graphion/pkg/persistence"
	"github.com/graphion-dev/graphion/pkg/registry"
	"github.com/graphion-dev/graphion/pkg/web"
	"github.com/graphion-dev/graphion/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	engine      *workflow.Engine
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

func NewAPI(
	log *slog.Logger,
	engine *workflow.Engine,
	store persistence.Persistence,
	reg *registry.Registry,
) *API {
	return &API{
		logger:      log,
		engine:      engine,
		persistence: store,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.engine, a.persistence, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Graphion API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.SaveWorkflow)
	w.Post("/validate", handlers.ValidateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)

	e := app.Group("/executions")
	e.Post("/", handlers.ExecuteInlineWorkflow)
	e.Get("/", handlers.GetActiveExecutions)
	e.Get("/history", handlers.GetExecutionHistory)
	e.Post("/:id/stop", handlers.StopExecution)

	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
