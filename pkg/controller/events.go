package controller

// EventType classifies controller events.
type EventType uint8

const (
	// EventRegistered indicates a rail was registered.
	EventRegistered EventType = iota

	// EventUnregistered indicates a rail was unregistered.
	EventUnregistered

	// EventEnabled indicates a rail was powered on.
	EventEnabled

	// EventDisabled indicates a rail was powered off.
	EventDisabled

	// EventEnableFailed indicates a rail's enable sequence aborted.
	EventEnableFailed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "REGISTERED"
	case EventUnregistered:
		return "UNREGISTERED"
	case EventEnabled:
		return "ENABLED"
	case EventDisabled:
		return "DISABLED"
	case EventEnableFailed:
		return "ENABLE_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Event describes a rail state transition.
type Event struct {
	// Type is the event type.
	Type EventType

	// Rail is the rail name.
	Rail string

	// Users is the rail's use count after the event.
	Users int

	// Err is the step error for EventEnableFailed.
	Err error
}
