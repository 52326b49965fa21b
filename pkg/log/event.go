package log

import (
	"time"
)

// Event represents a power event captured during rail sequencing.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID correlates all events of a single enable/disable run (UUID).
	RunID string `cbor:"2,keyasint"`

	// Rail is the name of the rail being sequenced.
	Rail string `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Step        *StepEvent        `cbor:"5,keyasint,omitempty"` // Per-supply action
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"` // Rail state transition
	Error       *ErrorEventData   `cbor:"7,keyasint,omitempty"` // Step failure
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryStep indicates a per-supply sequencing action.
	CategoryStep Category = 0
	// CategoryState indicates a rail state transition.
	CategoryState Category = 1
	// CategoryError indicates a step failure.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStep:
		return "STEP"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StepAction identifies the sequencing action taken against a supply.
type StepAction uint8

const (
	// ActionSetVoltage indicates a voltage-window request.
	ActionSetVoltage StepAction = 0
	// ActionEnable indicates a supply enable request.
	ActionEnable StepAction = 1
	// ActionDisable indicates a supply disable request.
	ActionDisable StepAction = 2
	// ActionSettle indicates a settle delay after switching.
	ActionSettle StepAction = 3
	// ActionSkip indicates an unresolved supply was skipped.
	ActionSkip StepAction = 4
)

// String returns the action name.
func (a StepAction) String() string {
	switch a {
	case ActionSetVoltage:
		return "SET_VOLTAGE"
	case ActionEnable:
		return "ENABLE"
	case ActionDisable:
		return "DISABLE"
	case ActionSettle:
		return "SETTLE"
	case ActionSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// StepEvent captures a single sequencing action against one supply.
type StepEvent struct {
	// Index is the supply's position in the rail's power-on order.
	Index int `cbor:"1,keyasint"`

	// Supply is the supply name.
	Supply string `cbor:"2,keyasint"`

	// Action taken against the supply.
	Action StepAction `cbor:"3,keyasint"`

	// Voltage window for SET_VOLTAGE actions (microvolts).
	MinMicrovolts uint32 `cbor:"4,keyasint,omitempty"`
	MaxMicrovolts uint32 `cbor:"5,keyasint,omitempty"`

	// Delay is the configured settle delay for SETTLE actions.
	// Stored as nanoseconds.
	Delay time.Duration `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent captures a rail state transition.
type StateChangeEvent struct {
	// OldState is the previous rail state.
	OldState string `cbor:"1,keyasint"`

	// NewState is the new rail state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a step failure.
type ErrorEventData struct {
	// Index is the failing supply's position in the power-on order.
	Index int `cbor:"1,keyasint"`

	// Supply is the failing supply name.
	Supply string `cbor:"2,keyasint,omitempty"`

	// Action that failed.
	Action StepAction `cbor:"3,keyasint"`

	// Message is the underlying error message.
	Message string `cbor:"4,keyasint"`

	// Fatal indicates whether the failure aborted the run
	// (enable path) or was skipped over (disable path).
	Fatal bool `cbor:"5,keyasint,omitempty"`
}
