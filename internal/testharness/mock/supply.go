package mock

import (
	"sync"

	"github.com/railseq/railseq-go/pkg/supply"
)

// Op identifies a supply request.
type Op string

// Supply request operations.
const (
	OpSetVoltage Op = "set_voltage"
	OpEnable     Op = "enable"
	OpDisable    Op = "disable"
)

// Call records one request against one supply.
type Call struct {
	// Supply is the supply name.
	Supply string

	// Op is the request operation.
	Op Op

	// MinUV and MaxUV are the requested voltage window (set_voltage only).
	MinUV uint32
	MaxUV uint32
}

// Recorder captures the global order of supply requests.
// Share one Recorder across all supplies of a rail to assert sequencing.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// record appends a call.
func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsFor returns the recorded calls against the named supply, in order.
func (r *Recorder) CallsFor(name string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Supply == name {
			out = append(out, c)
		}
	}
	return out
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Supply is a scripted supply. The zero failure fields make every request
// succeed; set them to fail the corresponding request.
type Supply struct {
	name string
	rec  *Recorder

	mu      sync.Mutex
	enabled bool

	// FailSetVoltage, FailEnable and FailDisable are returned by the
	// corresponding request when non-nil. The request is still recorded.
	FailSetVoltage error
	FailEnable     error
	FailDisable    error
}

// NewSupply creates a scripted supply recording into rec.
func NewSupply(name string, rec *Recorder) *Supply {
	return &Supply{name: name, rec: rec}
}

// Name returns the supply name.
func (s *Supply) Name() string {
	return s.name
}

// SetVoltage records the request and returns the scripted result.
func (s *Supply) SetVoltage(minUV, maxUV uint32) error {
	s.rec.record(Call{Supply: s.name, Op: OpSetVoltage, MinUV: minUV, MaxUV: maxUV})
	return s.FailSetVoltage
}

// Enable records the request and returns the scripted result.
func (s *Supply) Enable() error {
	s.rec.record(Call{Supply: s.name, Op: OpEnable})
	if s.FailEnable != nil {
		return s.FailEnable
	}
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
	return nil
}

// Disable records the request and returns the scripted result.
func (s *Supply) Disable() error {
	s.rec.record(Call{Supply: s.name, Op: OpDisable})
	if s.FailDisable != nil {
		return s.FailDisable
	}
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	return nil
}

// Enabled reports whether the supply is on.
func (s *Supply) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Compile-time interface satisfaction check.
var _ supply.Supply = (*Supply)(nil)
