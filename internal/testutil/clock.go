package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic clock for tests: every Now call advances the
// current time by a fixed step, so duration assertions can be exact instead of
// sleep-based. Safe for concurrent use.
type StepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at start; the first Now call returns
// start, subsequent calls advance by step.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{t: start.Add(-step), step: step}
}

// Now advances the clock by the configured step and returns the new time.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}
