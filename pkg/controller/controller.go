package controller

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/railseq/railseq-go/pkg/config"
	"github.com/railseq/railseq-go/pkg/log"
	"github.com/railseq/railseq-go/pkg/persistence"
	"github.com/railseq/railseq-go/pkg/sequencer"
	"github.com/railseq/railseq-go/pkg/supply"
)

// rail is one registered rail with its use count.
// The per-rail mutex serializes enable/disable against the sequencer,
// which holds no lock of its own.
type rail struct {
	mu sync.Mutex

	seq      *sequencer.Sequencer
	users    int
	alwaysOn bool
}

// Options configures optional Controller collaborators.
// The zero value uses slog.Default(), no capture, and no persistence.
type Options struct {
	// Logger receives operational diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Capture receives power events from all rails. Nil means no capture.
	Capture log.Logger

	// Store persists last-known rail states. Nil disables persistence.
	Store *persistence.StateStore

	// Restore re-applies persisted rail states at registration for rails
	// without a boot-on/always-on policy. Requires Store.
	Restore bool

	// Sleeper overrides the settle sleeper of all rails (tests only).
	Sleeper sequencer.Sleeper
}

// Controller hosts composite rails as named power resources.
type Controller struct {
	mu sync.RWMutex

	rails    map[string]*rail
	provider supply.Provider

	logger  *slog.Logger
	capture log.Logger
	sleeper sequencer.Sleeper

	store   *persistence.StateStore
	stateMu sync.Mutex
	state   *persistence.ControllerState

	restore bool

	onEvent func(Event)
}

// New creates a controller resolving supplies through the given provider.
func New(provider supply.Provider, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		rails:    make(map[string]*rail),
		provider: provider,
		logger:   logger,
		capture:  opts.Capture,
		sleeper:  opts.Sleeper,
		store:    opts.Store,
		restore:  opts.Restore && opts.Store != nil,
	}

	if c.store != nil {
		state, err := c.store.Load()
		if err != nil {
			logger.Warn("cannot load persisted state", "err", err)
		}
		if state == nil {
			state = &persistence.ControllerState{}
		}
		c.state = state
	}

	return c
}

// OnEvent sets a callback invoked after every rail state transition.
// The callback runs on the transitioning goroutine and must not call back
// into the controller for the same rail.
func (c *Controller) OnEvent(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = fn
}

// Register builds a sequencer for the rail configuration and registers it
// under its name, then applies the initial-state policy: always-on and
// boot-on rails are powered immediately; with the restore option, rails
// persisted as enabled are powered back on.
//
// Returns ErrRailExists if the name is taken, or the sequencer's
// construction error for an invalid configuration.
func (c *Controller) Register(cfg config.RailConfig) error {
	specs := make([]sequencer.SupplySpec, 0, len(cfg.Supplies))
	for _, s := range cfg.Supplies {
		specs = append(specs, sequencer.SupplySpec{
			Name:          s.Name,
			MinMicrovolts: s.MinMicrovolts,
			MaxMicrovolts: s.MaxMicrovolts,
			PowerOnDelay:  s.PowerOnDelay(),
			PowerOffDelay: s.PowerOffDelay(),
		})
	}

	seq, err := sequencer.New(cfg.Name, specs, c.provider, sequencer.Options{
		Logger:  c.logger,
		Capture: c.capture,
		Sleeper: c.sleeper,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	if _, exists := c.rails[cfg.Name]; exists {
		c.mu.Unlock()
		return ErrRailExists
	}
	r := &rail{seq: seq, alwaysOn: cfg.AlwaysOn}
	c.rails[cfg.Name] = r
	c.mu.Unlock()

	c.logger.Info("rail registered",
		"rail", cfg.Name, "supplies", len(cfg.Supplies),
		"boot_on", cfg.BootOn, "always_on", cfg.AlwaysOn)
	c.emit(Event{Type: EventRegistered, Rail: cfg.Name})

	if cfg.AlwaysOn || cfg.BootOn || c.restoreEnabled(cfg.Name) {
		if err := c.Acquire(cfg.Name); err != nil {
			// The rail stays registered; callers may retry via Acquire.
			c.logger.Error("initial power-on failed", "rail", cfg.Name, "err", err)
			return err
		}
	}

	return nil
}

// restoreEnabled reports whether the restore policy wants the rail on.
func (c *Controller) restoreEnabled(name string) bool {
	if !c.restore {
		return false
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	st, ok := c.state.Rail(name)
	return ok && st.Enabled
}

// Unregister powers the rail down (best-effort, even for always-on rails)
// and removes it. Returns ErrRailNotFound if no such rail is registered.
func (c *Controller) Unregister(name string) error {
	c.mu.Lock()
	r, exists := c.rails[name]
	if !exists {
		c.mu.Unlock()
		return ErrRailNotFound
	}
	delete(c.rails, name)
	c.mu.Unlock()

	r.mu.Lock()
	if r.seq.IsEnabled() {
		// Disable is best-effort and infallible.
		_ = r.seq.Disable()
		r.users = 0
	}
	r.mu.Unlock()

	c.persist(name, false)
	c.logger.Info("rail unregistered", "rail", name)
	c.emit(Event{Type: EventUnregistered, Rail: name})
	return nil
}

// Acquire requests power on the named rail. The enable sequence runs on
// the 0->1 use-count transition only; further acquires just increment the
// count. On a failed enable the count stays at zero and the step error is
// returned.
func (c *Controller) Acquire(name string) error {
	r, err := c.rail(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users == 0 {
		if err := r.seq.Enable(); err != nil {
			c.emit(Event{Type: EventEnableFailed, Rail: name, Err: err})
			return err
		}
		c.persist(name, true)
		c.emit(Event{Type: EventEnabled, Rail: name, Users: 1})
	}
	r.users++
	return nil
}

// Release gives back one acquire on the named rail. The disable sequence
// runs on the 1->0 transition only. Returns ErrUnbalancedRelease when the
// rail has no users, and ErrAlwaysOn when the final release would power
// down an always-on rail (the use count is left untouched in both cases).
func (c *Controller) Release(name string) error {
	r, err := c.rail(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users == 0 {
		return ErrUnbalancedRelease
	}
	if r.users == 1 && r.alwaysOn {
		return ErrAlwaysOn
	}

	r.users--
	if r.users == 0 {
		// Disable is best-effort and infallible.
		_ = r.seq.Disable()
		c.persist(name, false)
		c.emit(Event{Type: EventDisabled, Rail: name, Users: 0})
	}
	return nil
}

// IsEnabled reports the named rail's logical power state.
func (c *Controller) IsEnabled(name string) (bool, error) {
	r, err := c.rail(name)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq.IsEnabled(), nil
}

// Users returns the named rail's current use count.
func (c *Controller) Users(name string) (int, error) {
	r, err := c.rail(name)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users, nil
}

// Rail returns the sequencer backing the named rail.
func (c *Controller) Rail(name string) (*sequencer.Sequencer, error) {
	r, err := c.rail(name)
	if err != nil {
		return nil, err
	}
	return r.seq, nil
}

// Names returns the names of all registered rails, sorted.
func (c *Controller) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.rails))
	for name := range c.rails {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnabledCount returns the number of rails currently enabled.
func (c *Controller) EnabledCount() int {
	c.mu.RLock()
	rails := make([]*rail, 0, len(c.rails))
	for _, r := range c.rails {
		rails = append(rails, r)
	}
	c.mu.RUnlock()

	n := 0
	for _, r := range rails {
		r.mu.Lock()
		if r.seq.IsEnabled() {
			n++
		}
		r.mu.Unlock()
	}
	return n
}

// Shutdown powers down all rails in reverse registration-name order and
// clears their use counts. Always-on rails are powered down too; shutdown
// overrides the always-on policy.
func (c *Controller) Shutdown() {
	names := c.Names()
	for i := len(names) - 1; i >= 0; i-- {
		r, err := c.rail(names[i])
		if err != nil {
			continue
		}
		r.mu.Lock()
		if r.seq.IsEnabled() {
			_ = r.seq.Disable()
			r.users = 0
			c.persist(names[i], false)
			c.emit(Event{Type: EventDisabled, Rail: names[i], Users: 0})
		}
		r.mu.Unlock()
	}
}

// rail looks up a registered rail by name.
func (c *Controller) rail(name string) (*rail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, exists := c.rails[name]
	if !exists {
		return nil, ErrRailNotFound
	}
	return r, nil
}

// persist records a rail state change in the state store, when configured.
func (c *Controller) persist(name string, enabled bool) {
	if c.store == nil {
		return
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state.SetRail(name, enabled)
	if err := c.store.Save(c.state); err != nil {
		c.logger.Warn("cannot persist rail state", "rail", name, "err", err)
	}
}

// emit invokes the event callback, when set.
func (c *Controller) emit(ev Event) {
	c.mu.RLock()
	fn := c.onEvent
	c.mu.RUnlock()

	if fn != nil {
		fn(ev)
	}
}
