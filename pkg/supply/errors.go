package supply

import "errors"

// Registry errors.
var (
	// ErrSupplyExists indicates a supply is already registered under the name.
	ErrSupplyExists = errors.New("supply already registered")

	// ErrSupplyNotFound indicates no supply is registered under the name.
	ErrSupplyNotFound = errors.New("supply not found")
)
