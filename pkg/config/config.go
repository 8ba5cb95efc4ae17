// Package config provides service configuration loading from YAML files and
// the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration shared by the CLI and the API server.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// DatabaseURL selects the workflow store, e.g. "file://./data".
	DatabaseURL string `yaml:"database_url"`

	// EventBus selects the event transport: "gochannel" or "kafka".
	EventBus string `yaml:"event_bus"`

	// PluginsPath is the directory scanned for node plugins. Empty disables
	// plugin loading.
	PluginsPath string `yaml:"plugins_path"`

	// Port is the API server listen port.
	Port int `yaml:"port"`

	Execution ExecutionConfig `yaml:"execution"`
}

// ExecutionConfig carries the run safety bounds.
type ExecutionConfig struct {
	Timeout                  time.Duration `yaml:"timeout"`
	MaxNodeExecutions        int           `yaml:"max_node_executions"`
	MaxTotalDispatches       int           `yaml:"max_total_dispatches"`
	HistoryCapacity          int           `yaml:"history_capacity"`
	ContinueOnTriggerFailure bool          `yaml:"continue_on_trigger_failure"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:    "info",
		DatabaseURL: "file://./data",
		EventBus:    "gochannel",
		Port:        9091,
	}
}

// Load reads configuration from a YAML file, then overlays environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file, falling back to
// defaults (plus environment overrides) if the file cannot be read.
func LoadOrDefault(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.applyEnv()
	}

	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}

	if v := os.Getenv("EVENT_BUS"); v != "" {
		c.EventBus = v
	}

	if v := os.Getenv("PLUGINS_PATH"); v != "" {
		c.PluginsPath = v
	}

	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Port = port
		}
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	switch c.EventBus {
	case "", "gochannel", "kafka":
	default:
		return fmt.Errorf("unknown event bus '%s'", c.EventBus)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	return nil
}
