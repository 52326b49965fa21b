package supply

import (
	"sync"
	"time"
)

// Simulated is a software supply for simulation mode and examples.
// It tracks the state a real supply would have and optionally models a
// fixed switching latency. Safe for concurrent use.
type Simulated struct {
	mu sync.Mutex

	name    string
	enabled bool
	minUV   uint32
	maxUV   uint32

	// SwitchLatency is slept on Enable/Disable when nonzero.
	SwitchLatency time.Duration
}

// NewSimulated creates a simulated supply with the given name.
func NewSimulated(name string) *Simulated {
	return &Simulated{name: name}
}

// Name returns the supply name.
func (s *Simulated) Name() string {
	return s.name
}

// SetVoltage records the requested voltage window.
func (s *Simulated) SetVoltage(minUV, maxUV uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minUV = minUV
	s.maxUV = maxUV
	return nil
}

// Enable switches the simulated supply on.
func (s *Simulated) Enable() error {
	if s.SwitchLatency > 0 {
		time.Sleep(s.SwitchLatency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return nil
}

// Disable switches the simulated supply off.
func (s *Simulated) Disable() error {
	if s.SwitchLatency > 0 {
		time.Sleep(s.SwitchLatency)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
	return nil
}

// Enabled reports whether the simulated supply is on.
func (s *Simulated) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Voltage returns the last requested voltage window.
func (s *Simulated) Voltage() (minUV, maxUV uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minUV, s.maxUV
}

// Compile-time interface satisfaction check.
var _ Supply = (*Simulated)(nil)
