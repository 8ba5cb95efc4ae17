package workflow

import (
	"sync"

	"github.com/graphion-dev/graphion/pkg/models"
)

// History is the process-wide bounded record of finished runs, newest first.
// Appends are idempotent by execution id, so a stopped run whose in-flight
// walk later unwinds cannot insert a duplicate entry.
type History struct {
	mu       sync.Mutex
	capacity int
	entries  []models.ExecutionSummary
	index    map[string]bool
}

// NewHistory creates a history bounded to the given capacity. A non-positive
// capacity falls back to the default.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &History{
		capacity: capacity,
		index:    map[string]bool{},
	}
}

// Append records a finished run. Returns false if the execution id is
// already present.
func (h *History) Append(summary models.ExecutionSummary) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index[summary.ExecutionID] {
		return false
	}

	h.index[summary.ExecutionID] = true
	h.entries = append([]models.ExecutionSummary{summary}, h.entries...)

	if len(h.entries) > h.capacity {
		evicted := h.entries[len(h.entries)-1]
		delete(h.index, evicted.ExecutionID)
		h.entries = h.entries[:len(h.entries)-1]
	}

	return true
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything retained.
func (h *History) Recent(limit int) []models.ExecutionSummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}

	out := make([]models.ExecutionSummary, limit)
	copy(out, h.entries[:limit])

	return out
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}
