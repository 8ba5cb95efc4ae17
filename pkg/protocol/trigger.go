package protocol

import "context"

// TriggerCallback is invoked by a trigger runner when an external event
// should start a workflow run. The data map becomes the run's trigger input.
type TriggerCallback func(ctx context.Context, data map[string]any) error

// TriggerRunner watches an external event source and fires its callback for
// each event.
type TriggerRunner interface {
	Start(ctx context.Context, callback TriggerCallback) error
	Stop(ctx context.Context) error
}
