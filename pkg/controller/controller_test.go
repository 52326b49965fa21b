package controller

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railseq/railseq-go/internal/testharness/mock"
	"github.com/railseq/railseq-go/pkg/config"
	"github.com/railseq/railseq-go/pkg/persistence"
	"github.com/railseq/railseq-go/pkg/sequencer"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func socRail() config.RailConfig {
	return config.RailConfig{
		Name: "soc",
		Supplies: []config.SupplyConfig{
			{Name: "vdd-core", MinMicrovolts: 800000, MaxMicrovolts: 900000, PowerOnDelayUs: 500, PowerOffDelayUs: 200},
			{Name: "vdd-io"},
		},
	}
}

// newTestController builds a controller over scripted supplies.
func newTestController(t *testing.T, opts Options, names ...string) (*Controller, *mock.Provider, *mock.Recorder) {
	t.Helper()

	rec := mock.NewRecorder()
	provider := mock.NewProvider(rec, names...)
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.Sleeper == nil {
		opts.Sleeper = mock.NewSleeper()
	}
	return New(provider, opts), provider, rec
}

func TestRegister(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

		require.NoError(t, c.Register(socRail()))

		enabled, err := c.IsEnabled("soc")
		require.NoError(t, err)
		assert.False(t, enabled)
		assert.Equal(t, []string{"soc"}, c.Names())
	})

	t.Run("Duplicate", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

		require.NoError(t, c.Register(socRail()))
		assert.ErrorIs(t, c.Register(socRail()), ErrRailExists)
	})

	t.Run("NoSupplies", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{})

		err := c.Register(config.RailConfig{Name: "empty"})
		assert.ErrorIs(t, err, sequencer.ErrNoSupplies)
		assert.Empty(t, c.Names())
	})

	t.Run("BootOn", func(t *testing.T) {
		c, _, rec := newTestController(t, Options{}, "vdd-core", "vdd-io")

		cfg := socRail()
		cfg.BootOn = true
		require.NoError(t, c.Register(cfg))

		enabled, err := c.IsEnabled("soc")
		require.NoError(t, err)
		assert.True(t, enabled)
		assert.NotEmpty(t, rec.Calls())

		users, err := c.Users("soc")
		require.NoError(t, err)
		assert.Equal(t, 1, users)
	})

	t.Run("BootOnFailure", func(t *testing.T) {
		c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")
		provider.Supply("vdd-core").FailEnable = errors.New("short to ground")

		cfg := socRail()
		cfg.BootOn = true
		err := c.Register(cfg)
		require.Error(t, err)

		_, ok := sequencer.AsStepError(err)
		assert.True(t, ok)

		// The rail stays registered for a later retry.
		assert.Equal(t, []string{"soc"}, c.Names())
		users, err := c.Users("soc")
		require.NoError(t, err)
		assert.Zero(t, users)
	})
}

func TestUnregister(t *testing.T) {
	t.Run("PowersDown", func(t *testing.T) {
		c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

		cfg := socRail()
		cfg.BootOn = true
		require.NoError(t, c.Register(cfg))
		require.True(t, provider.Supply("vdd-core").Enabled())

		require.NoError(t, c.Unregister("soc"))
		assert.False(t, provider.Supply("vdd-core").Enabled())
		assert.Empty(t, c.Names())
	})

	t.Run("AlwaysOnStillPowersDown", func(t *testing.T) {
		c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

		cfg := socRail()
		cfg.AlwaysOn = true
		require.NoError(t, c.Register(cfg))

		require.NoError(t, c.Unregister("soc"))
		assert.False(t, provider.Supply("vdd-core").Enabled())
	})

	t.Run("Unknown", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{})
		assert.ErrorIs(t, c.Unregister("missing"), ErrRailNotFound)
	})
}

func TestAcquireRelease(t *testing.T) {
	t.Run("UseCounting", func(t *testing.T) {
		c, _, rec := newTestController(t, Options{}, "vdd-core", "vdd-io")
		require.NoError(t, c.Register(socRail()))

		// First acquire powers the rail; the second is a count bump only.
		require.NoError(t, c.Acquire("soc"))
		callsAfterFirst := len(rec.Calls())
		require.NoError(t, c.Acquire("soc"))
		assert.Equal(t, callsAfterFirst, len(rec.Calls()))

		users, err := c.Users("soc")
		require.NoError(t, err)
		assert.Equal(t, 2, users)

		// First release keeps the rail on; the final one powers it down.
		require.NoError(t, c.Release("soc"))
		enabled, err := c.IsEnabled("soc")
		require.NoError(t, err)
		assert.True(t, enabled)

		require.NoError(t, c.Release("soc"))
		enabled, err = c.IsEnabled("soc")
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("UnbalancedRelease", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")
		require.NoError(t, c.Register(socRail()))

		assert.ErrorIs(t, c.Release("soc"), ErrUnbalancedRelease)
	})

	t.Run("AlwaysOnRefusesFinalRelease", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

		cfg := socRail()
		cfg.AlwaysOn = true
		require.NoError(t, c.Register(cfg))

		// Registration holds the policy acquire; stacking another works.
		require.NoError(t, c.Acquire("soc"))
		require.NoError(t, c.Release("soc"))

		// The final release would power the rail down and is refused.
		assert.ErrorIs(t, c.Release("soc"), ErrAlwaysOn)
		enabled, err := c.IsEnabled("soc")
		require.NoError(t, err)
		assert.True(t, enabled)

		users, err := c.Users("soc")
		require.NoError(t, err)
		assert.Equal(t, 1, users)
	})

	t.Run("EnableFailureKeepsCountZero", func(t *testing.T) {
		c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")
		require.NoError(t, c.Register(socRail()))

		cause := errors.New("undervoltage lockout")
		provider.Supply("vdd-io").FailEnable = cause

		err := c.Acquire("soc")
		require.ErrorIs(t, err, cause)

		users, uerr := c.Users("soc")
		require.NoError(t, uerr)
		assert.Zero(t, users)

		// A retry after the fault clears succeeds.
		provider.Supply("vdd-io").FailEnable = nil
		require.NoError(t, c.Acquire("soc"))
		enabled, eerr := c.IsEnabled("soc")
		require.NoError(t, eerr)
		assert.True(t, enabled)
	})

	t.Run("UnknownRail", func(t *testing.T) {
		c, _, _ := newTestController(t, Options{})
		assert.ErrorIs(t, c.Acquire("missing"), ErrRailNotFound)
		assert.ErrorIs(t, c.Release("missing"), ErrRailNotFound)
	})
}

func TestEvents(t *testing.T) {
	c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io")

	var mu sync.Mutex
	var events []Event
	c.OnEvent(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	require.NoError(t, c.Register(socRail()))
	require.NoError(t, c.Acquire("soc"))
	require.NoError(t, c.Release("soc"))

	provider.Supply("vdd-core").FailEnable = errors.New("fault")
	require.Error(t, c.Acquire("soc"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 4)
	assert.Equal(t, EventRegistered, events[0].Type)
	assert.Equal(t, EventEnabled, events[1].Type)
	assert.Equal(t, 1, events[1].Users)
	assert.Equal(t, EventDisabled, events[2].Type)
	assert.Equal(t, EventEnableFailed, events[3].Type)
	assert.Error(t, events[3].Err)
}

func TestPersistence(t *testing.T) {
	t.Run("RestoreReappliesEnabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "railseq.json")

		c1, _, _ := newTestController(t, Options{
			Store: persistence.NewStateStore(path),
		}, "vdd-core", "vdd-io")
		require.NoError(t, c1.Register(socRail()))
		require.NoError(t, c1.Acquire("soc"))

		// A fresh controller with the restore policy powers soc back on.
		c2, provider2, _ := newTestController(t, Options{
			Store:   persistence.NewStateStore(path),
			Restore: true,
		}, "vdd-core", "vdd-io")
		require.NoError(t, c2.Register(socRail()))

		enabled, err := c2.IsEnabled("soc")
		require.NoError(t, err)
		assert.True(t, enabled)
		assert.True(t, provider2.Supply("vdd-core").Enabled())
	})

	t.Run("NoRestoreWithoutPolicy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "railseq.json")

		c1, _, _ := newTestController(t, Options{
			Store: persistence.NewStateStore(path),
		}, "vdd-core", "vdd-io")
		require.NoError(t, c1.Register(socRail()))
		require.NoError(t, c1.Acquire("soc"))

		c2, _, _ := newTestController(t, Options{
			Store: persistence.NewStateStore(path),
		}, "vdd-core", "vdd-io")
		require.NoError(t, c2.Register(socRail()))

		enabled, err := c2.IsEnabled("soc")
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("DisabledStateRestoresDisabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "railseq.json")

		c1, _, _ := newTestController(t, Options{
			Store: persistence.NewStateStore(path),
		}, "vdd-core", "vdd-io")
		require.NoError(t, c1.Register(socRail()))
		require.NoError(t, c1.Acquire("soc"))
		require.NoError(t, c1.Release("soc"))

		c2, _, _ := newTestController(t, Options{
			Store:   persistence.NewStateStore(path),
			Restore: true,
		}, "vdd-core", "vdd-io")
		require.NoError(t, c2.Register(socRail()))

		enabled, err := c2.IsEnabled("soc")
		require.NoError(t, err)
		assert.False(t, enabled)
	})
}

func TestShutdown(t *testing.T) {
	c, provider, _ := newTestController(t, Options{}, "vdd-core", "vdd-io", "vdd-cam")

	soc := socRail()
	soc.BootOn = true
	require.NoError(t, c.Register(soc))

	cam := config.RailConfig{
		Name:     "camera",
		AlwaysOn: true,
		Supplies: []config.SupplyConfig{{Name: "vdd-cam"}},
	}
	require.NoError(t, c.Register(cam))
	require.Equal(t, 2, c.EnabledCount())

	c.Shutdown()

	assert.Zero(t, c.EnabledCount())
	assert.False(t, provider.Supply("vdd-core").Enabled())
	assert.False(t, provider.Supply("vdd-cam").Enabled())

	users, err := c.Users("camera")
	require.NoError(t, err)
	assert.Zero(t, users)
}
