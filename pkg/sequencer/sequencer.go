package sequencer

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/railseq/railseq-go/pkg/log"
	"github.com/railseq/railseq-go/pkg/supply"
)

// Rail states reported in state-change events.
const (
	stateEnabled  = "ENABLED"
	stateDisabled = "DISABLED"
)

// SupplySpec describes one supply of a rail as configured.
// Index order in the spec slice is power-on order.
type SupplySpec struct {
	// Name identifies the supply at the provider.
	Name string

	// MinMicrovolts and MaxMicrovolts bound the voltage window.
	// Both zero means the supply's voltage is not constrained.
	MinMicrovolts uint32
	MaxMicrovolts uint32

	// PowerOnDelay is the settle delay after enabling the supply.
	// Zero means no delay.
	PowerOnDelay time.Duration

	// PowerOffDelay is the settle delay after disabling the supply.
	// Zero means no delay.
	PowerOffDelay time.Duration
}

// Descriptor is the resolved, immutable form of a SupplySpec.
// A descriptor without a handle (failed resolution) is skipped by both
// sequencing paths and carries zeroed voltage and delay fields.
type Descriptor struct {
	name     string
	handle   supply.Supply
	minUV    uint32
	maxUV    uint32
	onDelay  time.Duration
	offDelay time.Duration
}

// Name returns the configured supply name.
func (d Descriptor) Name() string {
	return d.name
}

// Resolved reports whether the supply handle was resolved at construction.
func (d Descriptor) Resolved() bool {
	return d.handle != nil
}

// Options configures optional Sequencer collaborators.
// The zero value uses slog.Default(), no event capture, and real sleeps.
type Options struct {
	// Logger receives operational diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Capture receives power events. Nil means no capture.
	Capture log.Logger

	// Sleeper performs settle delays. Nil means a random sleep in
	// [d, 2d] per the settle contract.
	Sleeper Sleeper
}

// Sequencer sequences an ordered list of supplies into one logical rail.
// See the package documentation for the enable/disable contracts.
type Sequencer struct {
	name        string
	descriptors []Descriptor
	enabled     bool

	logger  *slog.Logger
	capture log.Logger
	sleeper Sleeper
}

// New builds a Sequencer for the named rail from the given supply specs,
// resolving each supply through the provider.
//
// An empty spec list returns ErrNoSupplies. A supply that fails to resolve
// does not fail construction: its descriptor is recorded without a handle
// and with zeroed voltage/delay fields, and is skipped during sequencing.
// The rail starts disabled.
func New(name string, specs []SupplySpec, provider supply.Provider, opts Options) (*Sequencer, error) {
	if len(specs) == 0 {
		return nil, ErrNoSupplies
	}
	if provider == nil {
		return nil, ErrNoProvider
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	capture := opts.Capture
	if capture == nil {
		capture = log.NoopLogger{}
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = rangeSleeper{}
	}

	s := &Sequencer{
		name:        name,
		descriptors: make([]Descriptor, 0, len(specs)),
		logger:      logger,
		capture:     capture,
		sleeper:     sleeper,
	}

	for i, spec := range specs {
		handle, err := provider.Get(spec.Name)
		if err != nil {
			// Permissive degradation: the rail still sequences the
			// supplies that did resolve.
			logger.Warn("cannot resolve supply",
				"rail", name, "supply", spec.Name, "index", i, "err", err)
			s.descriptors = append(s.descriptors, Descriptor{name: spec.Name})
			continue
		}

		s.descriptors = append(s.descriptors, Descriptor{
			name:     spec.Name,
			handle:   handle,
			minUV:    spec.MinMicrovolts,
			maxUV:    spec.MaxMicrovolts,
			onDelay:  spec.PowerOnDelay,
			offDelay: spec.PowerOffDelay,
		})

		logger.Debug("resolved supply",
			"rail", name, "supply", spec.Name, "index", i,
			"min_uv", spec.MinMicrovolts, "max_uv", spec.MaxMicrovolts,
			"pon_delay", spec.PowerOnDelay, "poff_delay", spec.PowerOffDelay)
	}

	return s, nil
}

// Name returns the rail name.
func (s *Sequencer) Name() string {
	return s.name
}

// Len returns the number of supply descriptors.
func (s *Sequencer) Len() int {
	return len(s.descriptors)
}

// Descriptors returns a copy of the rail's descriptor list in power-on order.
func (s *Sequencer) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// IsEnabled reports the rail's current logical power state.
// A nil sequencer reports disabled.
func (s *Sequencer) IsEnabled() bool {
	if s == nil {
		return false
	}
	return s.enabled
}

// Enable powers each supply in ascending index order: voltage window first
// (when configured), then enable, then the power-on settle delay.
//
// Enable is idempotent; calling it on an enabled rail is a no-op. The first
// set-voltage or enable failure aborts the run and is returned as a
// *StepError: no further supplies are touched, the rail stays disabled, and
// supplies already switched on are left on. There is no automatic rollback;
// a later Disable powers them down.
func (s *Sequencer) Enable() error {
	if s.enabled {
		s.logger.Warn("already enabled", "rail", s.name)
		return nil
	}

	runID := uuid.NewString()

	for i, d := range s.descriptors {
		if d.handle == nil {
			s.logger.Debug("skipping unresolved supply",
				"rail", s.name, "supply", d.name, "index", i)
			s.captureStep(runID, i, d, log.ActionSkip, 0)
			continue
		}

		if d.minUV != 0 || d.maxUV != 0 {
			s.captureStep(runID, i, d, log.ActionSetVoltage, 0)
			if err := d.handle.SetVoltage(d.minUV, d.maxUV); err != nil {
				return s.failStep(runID, i, d, log.ActionSetVoltage, err)
			}
		}

		s.captureStep(runID, i, d, log.ActionEnable, 0)
		if err := d.handle.Enable(); err != nil {
			return s.failStep(runID, i, d, log.ActionEnable, err)
		}

		if d.onDelay > 0 {
			s.captureStep(runID, i, d, log.ActionSettle, d.onDelay)
			s.sleeper.Sleep(d.onDelay, 2*d.onDelay)
		}
	}

	s.enabled = true
	s.captureState(runID, stateDisabled, stateEnabled, "enable sequence complete")
	s.logger.Info("rail enabled", "rail", s.name, "supplies", len(s.descriptors))
	return nil
}

// Disable powers each supply down in the same ascending index order as
// Enable, sleeping for the power-off settle delay after each.
//
// Disable is idempotent and best-effort: per-supply failures are logged and
// the remaining supplies are still powered down. Once the loop completes
// the rail is disabled regardless of per-step failures, and Disable
// returns nil.
func (s *Sequencer) Disable() error {
	if !s.enabled {
		s.logger.Warn("already disabled", "rail", s.name)
		return nil
	}

	runID := uuid.NewString()

	for i, d := range s.descriptors {
		if d.handle == nil {
			s.logger.Debug("skipping unresolved supply",
				"rail", s.name, "supply", d.name, "index", i)
			s.captureStep(runID, i, d, log.ActionSkip, 0)
			continue
		}

		s.captureStep(runID, i, d, log.ActionDisable, 0)
		if err := d.handle.Disable(); err != nil {
			// Best-effort: powering down proceeds maximally even
			// under partial failure.
			s.logger.Warn("failed to disable supply",
				"rail", s.name, "supply", d.name, "index", i, "err", err)
			s.capture.Log(log.Event{
				Timestamp: time.Now(),
				RunID:     runID,
				Rail:      s.name,
				Category:  log.CategoryError,
				Error: &log.ErrorEventData{
					Index:   i,
					Supply:  d.name,
					Action:  log.ActionDisable,
					Message: err.Error(),
				},
			})
		}

		if d.offDelay > 0 {
			s.captureStep(runID, i, d, log.ActionSettle, d.offDelay)
			s.sleeper.Sleep(d.offDelay, 2*d.offDelay)
		}
	}

	s.enabled = false
	s.captureState(runID, stateEnabled, stateDisabled, "disable sequence complete")
	s.logger.Info("rail disabled", "rail", s.name, "supplies", len(s.descriptors))
	return nil
}

// failStep reports a fatal enable-path failure and builds the StepError.
func (s *Sequencer) failStep(runID string, index int, d Descriptor, action log.StepAction, err error) error {
	s.logger.Error("enable sequence aborted",
		"rail", s.name, "supply", d.name, "index", index,
		"action", action.String(), "err", err)
	s.capture.Log(log.Event{
		Timestamp: time.Now(),
		RunID:     runID,
		Rail:      s.name,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Index:   index,
			Supply:  d.name,
			Action:  action,
			Message: err.Error(),
			Fatal:   true,
		},
	})
	return &StepError{
		Rail:   s.name,
		Index:  index,
		Supply: d.name,
		Action: action,
		Err:    err,
	}
}

// captureStep emits a step event for the given action.
func (s *Sequencer) captureStep(runID string, index int, d Descriptor, action log.StepAction, delay time.Duration) {
	step := &log.StepEvent{
		Index:  index,
		Supply: d.name,
		Action: action,
		Delay:  delay,
	}
	if action == log.ActionSetVoltage {
		step.MinMicrovolts = d.minUV
		step.MaxMicrovolts = d.maxUV
	}
	s.capture.Log(log.Event{
		Timestamp: time.Now(),
		RunID:     runID,
		Rail:      s.name,
		Category:  log.CategoryStep,
		Step:      step,
	})
}

// captureState emits a state-change event.
func (s *Sequencer) captureState(runID, oldState, newState, reason string) {
	s.capture.Log(log.Event{
		Timestamp: time.Now(),
		RunID:     runID,
		Rail:      s.name,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

// AsStepError unwraps err into a *StepError when possible.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
