package sequencer

import (
	"errors"
	"fmt"

	"github.com/railseq/railseq-go/pkg/log"
)

// Construction errors.
var (
	// ErrNoSupplies indicates a rail was configured with zero supplies.
	ErrNoSupplies = errors.New("rail has no supplies configured")

	// ErrNoProvider indicates construction without a supply provider.
	ErrNoProvider = errors.New("no supply provider")
)

// StepError is returned by Enable when a set-voltage or enable request
// fails. It pinpoints the failing supply so callers can distinguish fail
// points; supplies at lower indices remain switched on.
type StepError struct {
	// Rail is the name of the rail being sequenced.
	Rail string

	// Index is the failing supply's position in the power-on order.
	Index int

	// Supply is the failing supply's name.
	Supply string

	// Action is the request that failed (SET_VOLTAGE or ENABLE).
	Action log.StepAction

	// Err is the error reported by the supply.
	Err error
}

// Error returns the step error message.
func (e *StepError) Error() string {
	return fmt.Sprintf("rail %q: %s failed for supply %q (index %d): %v",
		e.Rail, e.Action, e.Supply, e.Index, e.Err)
}

// Unwrap returns the supply-reported cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
