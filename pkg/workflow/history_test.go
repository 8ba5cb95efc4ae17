package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryFor(id string) models.ExecutionSummary {
	return models.ExecutionSummary{
		ExecutionID: id,
		WorkflowID:  "wf",
		Status:      models.ExecutionStatusCompleted,
		StartedAt:   time.Now().UTC(),
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	history := NewHistory(10)

	history.Append(summaryFor("first"))
	history.Append(summaryFor("second"))
	history.Append(summaryFor("third"))

	recent := history.Recent(0)

	require.Len(t, recent, 3)
	assert.Equal(t, "third", recent[0].ExecutionID)
	assert.Equal(t, "second", recent[1].ExecutionID)
	assert.Equal(t, "first", recent[2].ExecutionID)
}

func TestHistory_BoundedEviction(t *testing.T) {
	const capacity = 5

	history := NewHistory(capacity)

	for i := 0; i < capacity*2; i++ {
		history.Append(summaryFor(fmt.Sprintf("run-%d", i)))
	}

	recent := history.Recent(capacity)

	require.Len(t, recent, capacity)
	assert.Equal(t, capacity, history.Len())

	// Only the newest runs survive.
	assert.Equal(t, "run-9", recent[0].ExecutionID)
	assert.Equal(t, "run-5", recent[capacity-1].ExecutionID)
}

func TestHistory_AppendIsIdempotentByID(t *testing.T) {
	history := NewHistory(10)

	assert.True(t, history.Append(summaryFor("run")))
	assert.False(t, history.Append(summaryFor("run")))
	assert.Equal(t, 1, history.Len())
}

func TestHistory_RecentLimit(t *testing.T) {
	history := NewHistory(10)

	for i := 0; i < 4; i++ {
		history.Append(summaryFor(fmt.Sprintf("run-%d", i)))
	}

	assert.Len(t, history.Recent(2), 2)
	assert.Len(t, history.Recent(100), 4)
	assert.Len(t, history.Recent(-1), 4)
}
