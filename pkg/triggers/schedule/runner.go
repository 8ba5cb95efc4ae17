// Package schedule provides a cron-driven trigger runner.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/robfig/cron/v3"
)

// Runner fires its callback on a cron schedule.
type Runner struct {
	ID       string
	CronExpr string
	Timezone string
	Enabled  bool

	cron     *cron.Cron
	callback protocol.TriggerCallback
	logger   *slog.Logger
}

// NewRunner creates a schedule runner from trigger node configuration.
func NewRunner(id string, config map[string]any, logger *slog.Logger) (*Runner, error) {
	cronExpr, _ := config["cron_expression"].(string)
	timezone, _ := config["timezone"].(string)

	runner := &Runner{
		ID:       id,
		CronExpr: cronExpr,
		Timezone: timezone,
		Enabled:  true,
		logger: logger.With(
			"module", "schedule_runner",
			"id", id,
			"cron", cronExpr,
		),
	}

	if err := runner.Validate(); err != nil {
		return nil, err
	}

	return runner, nil
}

// Validate checks the runner configuration.
func (r *Runner) Validate() error {
	if r.ID == "" {
		return errors.New("schedule runner id is required")
	}

	if r.CronExpr == "" {
		return errors.New("schedule runner cron expression is required")
	}

	if _, err := cron.ParseStandard(r.CronExpr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}

	return nil
}

// Start schedules the cron job. Overlapping fires are skipped rather than
// queued.
func (r *Runner) Start(_ context.Context, callback protocol.TriggerCallback) error {
	if !r.Enabled {
		r.logger.Info("schedule runner is disabled")
		return nil
	}

	r.logger.Info("starting schedule runner")
	r.callback = callback

	opts := []cron.Option{
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		),
	}

	if r.Timezone != "" {
		location, err := time.LoadLocation(r.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}

		opts = append(opts, cron.WithLocation(location))
	}

	r.cron = cron.New(opts...)

	if _, err := r.cron.AddFunc(r.CronExpr, r.run); err != nil {
		return fmt.Errorf("failed to add cron job for runner %s: %w", r.ID, err)
	}

	r.cron.Start()

	return nil
}

func (r *Runner) run() {
	r.logger.Info("cron fired")

	triggerData := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := r.callback(context.Background(), triggerData); err != nil {
		r.logger.Error("error executing workflow for schedule", "error", err)
	}
}

// Stop halts the cron scheduler.
func (r *Runner) Stop(_ context.Context) error {
	r.logger.Info("stopping schedule runner")

	if r.cron != nil {
		r.cron.Stop()
	}

	return nil
}
