package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
rails:
  - name: soc
    boot_on: true
    supplies:
      - name: vdd-core
        min_microvolts: 800000
        max_microvolts: 900000
        power_on_delay_us: 500
        power_off_delay_us: 200
      - name: vdd-io
  - name: camera
    always_on: true
    supplies:
      - name: vdd-cam
`

func TestParse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleYAML))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(cfg.Rails) != 2 {
			t.Fatalf("got %d rails, want 2", len(cfg.Rails))
		}

		soc := cfg.Rails[0]
		if soc.Name != "soc" || !soc.BootOn || soc.AlwaysOn {
			t.Errorf("rail 0 = %+v, want soc with boot_on", soc)
		}
		if len(soc.Supplies) != 2 {
			t.Fatalf("got %d supplies, want 2", len(soc.Supplies))
		}

		core := soc.Supplies[0]
		if core.Name != "vdd-core" || core.MinMicrovolts != 800000 || core.MaxMicrovolts != 900000 {
			t.Errorf("supply 0 = %+v", core)
		}
		if core.PowerOnDelay() != 500*time.Microsecond {
			t.Errorf("PowerOnDelay() = %v, want 500us", core.PowerOnDelay())
		}
		if core.PowerOffDelay() != 200*time.Microsecond {
			t.Errorf("PowerOffDelay() = %v, want 200us", core.PowerOffDelay())
		}

		io := soc.Supplies[1]
		if io.MinMicrovolts != 0 || io.MaxMicrovolts != 0 || io.PowerOnDelayUs != 0 {
			t.Errorf("supply 1 = %+v, want all defaults", io)
		}

		if cam := cfg.Rails[1]; !cam.AlwaysOn {
			t.Errorf("rail 1 = %+v, want always_on", cam)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if _, err := Parse([]byte("rails: [")); err == nil {
			t.Error("Parse() = nil error on malformed YAML")
		}
	})

	t.Run("NoRails", func(t *testing.T) {
		if _, err := Parse([]byte("rails: []")); !errors.Is(err, ErrNoRails) {
			t.Errorf("Parse() error = %v, want ErrNoRails", err)
		}
	})

	t.Run("NoSupplies", func(t *testing.T) {
		data := []byte("rails:\n  - name: soc\n    supplies: []\n")
		if _, err := Parse(data); !errors.Is(err, ErrNoSupplies) {
			t.Errorf("Parse() error = %v, want ErrNoSupplies", err)
		}
	})

	t.Run("UnnamedRail", func(t *testing.T) {
		data := []byte("rails:\n  - supplies:\n      - name: vdd\n")
		if _, err := Parse(data); !errors.Is(err, ErrUnnamedRail) {
			t.Errorf("Parse() error = %v, want ErrUnnamedRail", err)
		}
	})

	t.Run("DuplicateRail", func(t *testing.T) {
		data := []byte(`
rails:
  - name: soc
    supplies:
      - name: vdd
  - name: soc
    supplies:
      - name: vdd2
`)
		if _, err := Parse(data); !errors.Is(err, ErrDuplicateRail) {
			t.Errorf("Parse() error = %v, want ErrDuplicateRail", err)
		}
	})

	t.Run("UnnamedSupply", func(t *testing.T) {
		data := []byte("rails:\n  - name: soc\n    supplies:\n      - min_microvolts: 1000\n        max_microvolts: 2000\n")
		if _, err := Parse(data); !errors.Is(err, ErrUnnamedSupply) {
			t.Errorf("Parse() error = %v, want ErrUnnamedSupply", err)
		}
	})

	t.Run("InvertedVoltageWindow", func(t *testing.T) {
		data := []byte(`
rails:
  - name: soc
    supplies:
      - name: vdd
        min_microvolts: 900000
        max_microvolts: 800000
`)
		if _, err := Parse(data); !errors.Is(err, ErrVoltageWindow) {
			t.Errorf("Parse() error = %v, want ErrVoltageWindow", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("FromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "railseq.yaml")
		if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.Rails) != 2 {
			t.Errorf("got %d rails, want 2", len(cfg.Rails))
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Load() = nil error for missing file")
		}
	})
}

func TestRailLookup(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rail, ok := cfg.Rail("camera")
	if !ok || rail.Name != "camera" {
		t.Errorf("Rail(camera) = (%+v, %t)", rail, ok)
	}
	if _, ok := cfg.Rail("missing"); ok {
		t.Error("Rail(missing) = true, want false")
	}
}
