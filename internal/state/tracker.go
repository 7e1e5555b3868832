package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eytandecker/mavforge/pkg/types"
)

// Tracker holds a concurrent-safe view of the running transmit session:
// cumulative counters and the most recent frame. The send loop writes, the
// MCP and HTTP surfaces read.
type Tracker struct {
	mu             sync.RWMutex
	runID          string
	startedAt      time.Time
	frames         uint64
	sendErrors     uint64
	bytes          uint64
	lastFrame      types.FrameRecord
	lastSentAt     time.Time
	staleThreshold time.Duration
}

// NewTracker creates a Tracker with the given stale threshold.
// A zero threshold disables staleness checking.
func NewTracker(staleThreshold time.Duration) *Tracker {
	return &Tracker{
		runID:          uuid.NewString(),
		startedAt:      time.Now(),
		staleThreshold: staleThreshold,
	}
}

// RecordFrame stores the latest transmitted frame and advances the
// counters.
func (t *Tracker) RecordFrame(rec types.FrameRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames++
	t.bytes += uint64(rec.Length)
	t.lastFrame = rec
	t.lastSentAt = time.Now()
}

// RecordError counts one failed encode or send attempt.
func (t *Tracker) RecordError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErrors++
}

// Stats returns the session summary, or ErrNoTraffic if nothing has been
// sent yet or the last frame's age exceeds the stale threshold.
func (t *Tracker) Stats() (types.SessionStats, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.lastSentAt.IsZero() {
		return types.SessionStats{}, ErrNoTraffic
	}
	if t.staleThreshold > 0 && time.Since(t.lastSentAt) > t.staleThreshold {
		return types.SessionStats{}, ErrNoTraffic
	}

	stats := types.SessionStats{
		RunID:      t.runID,
		FramesSent: t.frames,
		SendErrors: t.sendErrors,
		BytesSent:  t.bytes,
		StartedAt:  t.startedAt,
		LastFrame:  t.lastFrame,
	}
	if elapsed := time.Since(t.startedAt).Seconds(); elapsed > 0 {
		stats.AverageRate = float64(t.frames) / elapsed
	}
	return stats, nil
}

// RunID returns the identifier minted for this session.
func (t *Tracker) RunID() string {
	return t.runID
}

// LastSentAt returns the time of the most recent frame, or zero if none.
func (t *Tracker) LastSentAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastSentAt
}
