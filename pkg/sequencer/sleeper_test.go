package sequencer

import (
	"testing"
	"time"
)

func TestRangeSleeper(t *testing.T) {
	t.Run("SleepsAtLeastMin", func(t *testing.T) {
		var s rangeSleeper
		min := 5 * time.Millisecond

		start := time.Now()
		s.Sleep(min, 2*min)
		elapsed := time.Since(start)

		if elapsed < min {
			t.Errorf("slept %v, want at least %v", elapsed, min)
		}
	})

	t.Run("EqualBounds", func(t *testing.T) {
		var s rangeSleeper
		d := 2 * time.Millisecond

		start := time.Now()
		s.Sleep(d, d)
		elapsed := time.Since(start)

		if elapsed < d {
			t.Errorf("slept %v, want at least %v", elapsed, d)
		}
	})

	t.Run("ZeroWindow", func(t *testing.T) {
		var s rangeSleeper
		// Must return promptly rather than hang.
		done := make(chan struct{})
		go func() {
			s.Sleep(0, 0)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Sleep(0, 0) did not return")
		}
	})
}
