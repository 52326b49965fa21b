package sequencer

import (
	"math/rand/v2"
	"time"
)

// Sleeper performs the settle delay after switching a supply.
// Implementations must block for at least min and at most max; the exact
// duration inside the window is unspecified. Tests inject a Sleeper to
// assert the requested windows without real sleeping.
type Sleeper interface {
	Sleep(min, max time.Duration)
}

// rangeSleeper is the default Sleeper. It sleeps for a uniformly random
// duration in [min, max], matching the approximate-sleep contract: callers
// may depend on the lower bound only.
type rangeSleeper struct{}

// Sleep blocks for a random duration in [min, max].
func (rangeSleeper) Sleep(min, max time.Duration) {
	d := min
	if max > min {
		d += rand.N(max - min + 1)
	}
	time.Sleep(d)
}

// Compile-time interface satisfaction check.
var _ Sleeper = rangeSleeper{}
