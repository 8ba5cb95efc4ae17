// Package main provides the graphion CLI for running and inspecting workflows.
package main

import (
	"context"
	"os"

	"github.com/graphion-dev/graphion/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "graphion",
		Usage:                 "Run and inspect workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "plugins-path",
				Usage: "Path to the directory containing node plugins",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
			nodesCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("command failed", "error", err)
		os.Exit(1)
	}
}
