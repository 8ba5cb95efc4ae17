// Package cmd provides common initialization for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/graphion-dev/graphion/pkg/registry"
)

// NewRegistry builds a node registry with the built-in node set plus any
// plugins found under pluginsPath. An empty pluginsPath skips plugin loading.
func NewRegistry(logger *slog.Logger, pluginsPath string) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes()

	if pluginsPath != "" {
		factories, err := reg.LoadNodePlugins(pluginsPath)
		if err != nil {
			logger.Warn("failed to load node plugins", "path", pluginsPath, "error", err)
		}

		for _, factory := range factories {
			reg.RegisterNode(factory)
		}
	}

	return reg
}
