package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTxtRecords(t *testing.T) {
	info := &Info{
		Instance:     "railseq-host",
		RailCount:    3,
		EnabledCount: 2,
	}

	records := info.txtRecords()
	assert.Equal(t, []string{"rails=3", "enabled=2"}, records)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Interface)
	assert.Equal(t, 120*time.Second, cfg.TTL)
}

func TestAdvertiserLifecycle(t *testing.T) {
	t.Run("UpdateBeforeAdvertise", func(t *testing.T) {
		a := NewAdvertiser(DefaultConfig())
		err := a.Update(&Info{Instance: "railseq-host"})
		assert.ErrorIs(t, err, ErrNotAdvertising)
	})

	t.Run("StopWithoutAdvertise", func(t *testing.T) {
		a := NewAdvertiser(DefaultConfig())
		// Stop on an idle advertiser is a no-op, repeatedly.
		a.Stop()
		a.Stop()
	})

	t.Run("UnknownInterface", func(t *testing.T) {
		a := NewAdvertiser(Config{Interface: "does-not-exist0"})
		// Falls back to all interfaces rather than failing.
		assert.Nil(t, a.getInterfaces())
	})
}
