package usecase

import (
	"context"
	"sync"
	"time"
)

// MonotonicClock returns strictly increasing UTC timestamps within the process.
// Values are truncated to microseconds, the precision of the storage layer, so
// ordering observed in memory matches ordering read back from storage.
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewMonotonicClock creates a clock backed by time.Now.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// Now returns the current time. If the wall clock stalled or stepped back it
// returns one microsecond past the previous value instead.
func (c *MonotonicClock) Now() time.Time {
	t := c.now().UTC().Truncate(time.Microsecond)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t

	return t
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}
