package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "file://./data", cfg.DatabaseURL)
	assert.Equal(t, "gochannel", cfg.EventBus)
	assert.Equal(t, 9091, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
database_url: file:///var/lib/graphion
port: 8080
execution:
  timeout: 30s
  max_node_executions: 50
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file:///var/lib/graphion", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, 50, cfg.Execution.MaxNodeExecutions)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nport: 8080\n"), 0o644))

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PORT", "9000")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, Default().Port, cfg.Port)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.EventBus = "carrier-pigeon"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Port = 70000
	require.Error(t, cfg.Validate())
}
