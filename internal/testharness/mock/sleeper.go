package mock

import (
	"sync"
	"time"
)

// SleepWindow records one requested settle window.
type SleepWindow struct {
	Min time.Duration
	Max time.Duration
}

// Sleeper records requested settle windows without sleeping.
// Tests assert the windows (lower bound and count), never real timing.
type Sleeper struct {
	mu      sync.Mutex
	windows []SleepWindow
}

// NewSleeper creates an empty recording sleeper.
func NewSleeper() *Sleeper {
	return &Sleeper{}
}

// Sleep records the requested window and returns immediately.
func (s *Sleeper) Sleep(min, max time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, SleepWindow{Min: min, Max: max})
}

// Windows returns a copy of all recorded windows in order.
func (s *Sleeper) Windows() []SleepWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SleepWindow, len(s.windows))
	copy(out, s.windows)
	return out
}
