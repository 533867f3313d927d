package browsing

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/ports"
)

// DefaultSessionDuration is the inactivity window after which a new web
// session starts. 30*60*60 seconds is 30 hours; the value is kept as is
// because frecency weighting downstream was tuned against it.
const DefaultSessionDuration = 30 * 60 * 60 * time.Second

// Sessionnizer issues the current web session id. The id changes once
// no one has asked for it for longer than the session duration.
// It is safe for concurrent use.
type Sessionnizer struct {
	mu         sync.Mutex
	clock      ports.Clock
	duration   time.Duration
	id         uuid.UUID
	lastAccess time.Time
}

// NewSessionnizer creates a sessionnizer; a nil clock uses the system clock
func NewSessionnizer(clock ports.Clock, duration time.Duration) *Sessionnizer {
	if clock == nil {
		clock = systemClock{}
	}
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &Sessionnizer{clock: clock, duration: duration}
}

// SessionID returns the current session id, minting a new one if the
// previous access is older than the session duration. Every call slides
// the window.
func (s *Sessionnizer) SessionID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.id == uuid.Nil || now.Sub(s.lastAccess) >= s.duration {
		s.id = uuid.New()
	}
	s.lastAccess = now
	return s.id
}

// Duration returns the inactivity window
func (s *Sessionnizer) Duration() time.Duration {
	return s.duration
}
