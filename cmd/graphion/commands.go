package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/graphion-dev/graphion/pkg/cmd"
	"github.com/graphion-dev/graphion/pkg/log"
	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a workflow definition file",
		ArgsUsage: "<workflow.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "Trigger input as a JSON object",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Execution timeout in seconds (0 disables)",
			},
			&cli.IntFlag{
				Name:  "max-node-executions",
				Usage: "Per-node dispatch cap",
				Value: workflow.DefaultMaxNodeExecutions,
			},
			&cli.BoolFlag{
				Name:  "continue-on-trigger-failure",
				Usage: "Keep running remaining triggers when one fails",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli")

			wf, err := loadWorkflowFile(command.Args().First())
			if err != nil {
				return err
			}

			var input map[string]any
			if raw := command.String("input"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &input); err != nil {
					return fmt.Errorf("invalid --input JSON: %w", err)
				}
			}

			reg := cmd.NewRegistry(logger, command.String("plugins-path"))
			engine := workflow.NewEngine(logger, reg)

			opts := workflow.Options{
				Timeout:                  time.Duration(command.Int("timeout")) * time.Second,
				MaxNodeExecutions:        command.Int("max-node-executions"),
				ContinueOnTriggerFailure: command.Bool("continue-on-trigger-failure"),
			}

			result, err := engine.ExecuteWorkflow(ctx, wf, input, &opts)
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Check a workflow definition file without executing it",
		ArgsUsage: "<workflow.json>",
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli")

			wf, err := loadWorkflowFile(command.Args().First())
			if err != nil {
				return err
			}

			reg := cmd.NewRegistry(logger, command.String("plugins-path"))
			engine := workflow.NewEngine(logger, reg)

			validation := engine.Validate(wf)
			if err := printJSON(validation); err != nil {
				return err
			}

			if !validation.Valid {
				return fmt.Errorf("workflow '%s' is invalid", wf.ID)
			}

			return nil
		},
	}
}

func nodesCommand() *cli.Command {
	return &cli.Command{
		Name:    "nodes",
		Aliases: []string{"n"},
		Usage:   "List registered node types",
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli")

			reg := cmd.NewRegistry(logger, command.String("plugins-path"))

			catalog := make([]any, 0)

			for _, nodeType := range reg.NodeTypes() {
				if metadata, ok := reg.NodeMetadata(nodeType); ok {
					catalog = append(catalog, metadata)
				}
			}

			return printJSON(catalog)
		},
	}
}

func loadWorkflowFile(path string) (*models.Workflow, error) {
	if path == "" {
		return nil, fmt.Errorf("workflow file argument is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}

	var wf models.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}

	return &wf, nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}
