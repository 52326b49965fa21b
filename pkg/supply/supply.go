package supply

// Supply is a single controllable voltage source backing part of a rail.
// Implementations must tolerate repeated Enable/Disable calls; the caller
// does not track per-supply state.
type Supply interface {
	// Name returns the supply's identifying name.
	Name() string

	// SetVoltage constrains the supply output to [minUV, maxUV] microvolts.
	SetVoltage(minUV, maxUV uint32) error

	// Enable switches the supply on.
	Enable() error

	// Disable switches the supply off.
	Disable() error
}

// Provider resolves supply names to handles.
// Returns ErrSupplyNotFound when no supply is registered under the name.
type Provider interface {
	Get(name string) (Supply, error)
}
