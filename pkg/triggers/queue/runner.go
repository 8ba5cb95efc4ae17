// Package queue provides a Redis-list-driven trigger runner.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/graphion-dev/graphion/pkg/protocol"
	redis "github.com/redis/go-redis/v9"
)

// Runner consumes messages from a Redis list and fires its callback once per
// message. The message body, when valid JSON, becomes the trigger input.
type Runner struct {
	Connection map[string]string
	Queue      string
	Enabled    bool

	client   redis.UniversalClient
	callback protocol.TriggerCallback
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRunner creates a queue runner from trigger configuration.
func NewRunner(config map[string]any, logger *slog.Logger) (*Runner, error) {
	queue, _ := config["queue"].(string)

	connectionConfig, _ := config["connection"].(map[string]any)

	connection := make(map[string]string)
	for key, value := range connectionConfig {
		if str, ok := value.(string); ok {
			connection[key] = str
		}
	}

	runner := &Runner{
		Connection: connection,
		Queue:      queue,
		Enabled:    true,
		stopCh:     make(chan struct{}),
		logger: logger.With(
			"module", "queue_runner",
			"queue", queue,
		),
	}

	if err := runner.Validate(); err != nil {
		return nil, err
	}

	return runner, nil
}

// Validate checks the runner configuration.
func (r *Runner) Validate() error {
	if r.Queue == "" {
		return errors.New("queue runner queue name is required")
	}

	return nil
}

// Start connects to Redis and begins consuming.
func (r *Runner) Start(ctx context.Context, callback protocol.TriggerCallback) error {
	if !r.Enabled {
		r.logger.InfoContext(ctx, "queue runner is disabled")
		return nil
	}

	r.logger.InfoContext(ctx, "starting queue runner")
	r.callback = callback

	if err := r.initializeClient(ctx); err != nil {
		return fmt.Errorf("failed to initialize queue client: %w", err)
	}

	r.wg.Add(1)

	go r.consume(ctx)

	return nil
}

func (r *Runner) initializeClient(ctx context.Context) error {
	addr := r.Connection["addr"]
	if addr == "" {
		addr = "localhost:6379"
	}

	password := r.Connection["password"]
	db := 0

	if dbStr := r.Connection["db"]; dbStr != "" {
		if _, err := fmt.Sscanf(dbStr, "%d", &db); err != nil {
			return fmt.Errorf("invalid db value: %w", err)
		}
	}

	r.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r.logger.InfoContext(ctx, "connected to Redis", "addr", addr, "db", db)

	return nil
}

func (r *Runner) consume(ctx context.Context) {
	defer r.wg.Done()

	r.logger.InfoContext(ctx, "starting queue consumer", "queue", r.Queue)

	for {
		select {
		case <-r.stopCh:
			r.logger.InfoContext(ctx, "queue consumer stopped")
			return
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "context cancelled, stopping queue consumer")
			return
		default:
			if err := r.processMessage(ctx); err != nil {
				r.logger.ErrorContext(ctx, "error processing message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (r *Runner) processMessage(ctx context.Context) error {
	result, err := r.client.BLPop(ctx, 1*time.Second, r.Queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	message := result[1]

	var triggerData map[string]any
	if err := json.Unmarshal([]byte(message), &triggerData); err != nil {
		triggerData = map[string]any{
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	} else if triggerData["timestamp"] == nil {
		triggerData["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	if err := r.callback(ctx, triggerData); err != nil {
		r.logger.ErrorContext(ctx, "error executing workflow for queue message", "error", err)
	}

	return nil
}

// Stop halts the consumer and closes the Redis client.
func (r *Runner) Stop(ctx context.Context) error {
	r.logger.InfoContext(ctx, "stopping queue runner")

	close(r.stopCh)
	r.wg.Wait()

	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.logger.ErrorContext(ctx, "error closing Redis client", "error", err)
		}
	}

	return nil
}
