// Package sequencer implements the multi-supply rail sequencing core.
//
// A Sequencer fans one logical rail out to an ordered list of supplies that
// must be switched on and off in a defined order with defined settle times,
// as required by multi-rail chips with power-on/power-off ordering
// constraints (core, I/O, analog domains).
//
// Enable powers each supply in ascending index order, applying the
// configured voltage window first and sleeping for the settle delay after
// switching. The first failure aborts the run: supplies already switched on
// are left on (no rollback) and the rail stays disabled. Disable powers each
// supply down in the same ascending order but is best-effort: per-supply
// failures are logged and skipped, and the rail always ends up disabled.
// Both operations are idempotent; repeating the current state is a no-op.
//
// Supplies that could not be resolved at construction time degrade rather
// than fail: their descriptors carry no handle and are silently skipped by
// both paths, so a single missing supply does not prevent the rail from
// sequencing the others.
//
// The sequencer holds no internal lock. At most one Enable-or-Disable call
// may be in flight per instance; callers (normally the controller package)
// are responsible for serialization. Settle delays block the calling
// goroutine and are not cancellable.
package sequencer
