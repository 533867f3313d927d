// Package clock provides ports.Clock implementations
package clock

import (
	"sync"
	"time"

	"browsetree/internal/ports"
)

// System reads the wall clock
type System struct{}

var _ ports.Clock = System{}

func (System) Now() time.Time { return time.Now() }

// Manual is a clock that only moves when told to. Replays and tests drive
// trees with it.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

var _ ports.Clock = (*Manual)(nil)

// NewManual creates a manual clock set to start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock by d, which may be negative
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// Set moves the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
