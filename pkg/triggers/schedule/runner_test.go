package schedule

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner_Validation(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name    string
		id      string
		config  map[string]any
		wantErr string
	}{
		{
			name:   "valid",
			id:     "sched-1",
			config: map[string]any{"cron_expression": "*/5 * * * *"},
		},
		{
			name:   "valid with timezone",
			id:     "sched-1",
			config: map[string]any{"cron_expression": "0 9 * * 1", "timezone": "Europe/Lisbon"},
		},
		{
			name:    "missing id",
			config:  map[string]any{"cron_expression": "* * * * *"},
			wantErr: "id is required",
		},
		{
			name:    "missing expression",
			id:      "sched-1",
			config:  map[string]any{},
			wantErr: "cron expression is required",
		},
		{
			name:    "bad expression",
			id:      "sched-1",
			config:  map[string]any{"cron_expression": "not cron"},
			wantErr: "invalid cron expression",
		},
		{
			name:    "bad timezone",
			id:      "sched-1",
			config:  map[string]any{"cron_expression": "* * * * *", "timezone": "Mars/Olympus"},
			wantErr: "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(tt.id, tt.config, logger)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRunner_StartFiresCallback(t *testing.T) {
	runner, err := NewRunner("sched-1", map[string]any{
		"cron_expression": "@every 10ms",
	}, slog.Default())
	require.NoError(t, err)

	fired := make(chan map[string]any, 1)

	err = runner.Start(context.Background(), func(_ context.Context, data map[string]any) error {
		select {
		case fired <- data:
		default:
		}

		return nil
	})
	require.NoError(t, err)

	defer func() { _ = runner.Stop(context.Background()) }()

	select {
	case data := <-fired:
		assert.NotEmpty(t, data["timestamp"])
	case <-time.After(2 * time.Second):
		t.Fatal("schedule runner never fired")
	}
}

func TestRunner_DisabledDoesNotStart(t *testing.T) {
	runner, err := NewRunner("sched-1", map[string]any{
		"cron_expression": "* * * * *",
	}, slog.Default())
	require.NoError(t, err)

	runner.Enabled = false

	require.NoError(t, runner.Start(context.Background(), func(context.Context, map[string]any) error {
		return nil
	}))
	assert.Nil(t, runner.cron)
}
