package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	// ErrNoRails indicates a configuration without any rails.
	ErrNoRails = errors.New("configuration has no rails")

	// ErrNoSupplies indicates a rail with an empty supply list.
	ErrNoSupplies = errors.New("rail has no supplies")

	// ErrUnnamedRail indicates a rail without a name.
	ErrUnnamedRail = errors.New("rail has no name")

	// ErrDuplicateRail indicates two rails sharing a name.
	ErrDuplicateRail = errors.New("duplicate rail name")

	// ErrUnnamedSupply indicates a supply entry without a name.
	ErrUnnamedSupply = errors.New("supply has no name")

	// ErrVoltageWindow indicates min_microvolts > max_microvolts.
	ErrVoltageWindow = errors.New("invalid voltage window")
)

// Config is the top-level railseq configuration.
type Config struct {
	// Rails lists the composite rails to register, in registration order.
	Rails []RailConfig `yaml:"rails"`
}

// RailConfig configures one composite rail.
type RailConfig struct {
	// Name identifies the rail.
	Name string `yaml:"name"`

	// Supplies lists the rail's supplies in power-on order.
	Supplies []SupplyConfig `yaml:"supplies"`

	// BootOn enables the rail immediately at registration.
	BootOn bool `yaml:"boot_on,omitempty"`

	// AlwaysOn enables the rail at registration and refuses disable.
	AlwaysOn bool `yaml:"always_on,omitempty"`
}

// SupplyConfig configures one supply of a rail.
type SupplyConfig struct {
	// Name identifies the supply at the provider.
	Name string `yaml:"name"`

	// MinMicrovolts and MaxMicrovolts bound the voltage window.
	// Both zero (the default) means the voltage is not constrained.
	MinMicrovolts uint32 `yaml:"min_microvolts,omitempty"`
	MaxMicrovolts uint32 `yaml:"max_microvolts,omitempty"`

	// PowerOnDelayUs is the settle delay after enabling, in microseconds.
	PowerOnDelayUs uint32 `yaml:"power_on_delay_us,omitempty"`

	// PowerOffDelayUs is the settle delay after disabling, in microseconds.
	PowerOffDelayUs uint32 `yaml:"power_off_delay_us,omitempty"`
}

// PowerOnDelay returns the power-on settle delay as a duration.
func (s SupplyConfig) PowerOnDelay() time.Duration {
	return time.Duration(s.PowerOnDelayUs) * time.Microsecond
}

// PowerOffDelay returns the power-off settle delay as a duration.
func (s SupplyConfig) PowerOffDelay() time.Duration {
	return time.Duration(s.PowerOffDelayUs) * time.Microsecond
}

// Load reads and parses the configuration file at path and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if len(c.Rails) == 0 {
		return ErrNoRails
	}

	seen := make(map[string]struct{}, len(c.Rails))
	for _, rail := range c.Rails {
		if rail.Name == "" {
			return ErrUnnamedRail
		}
		if _, dup := seen[rail.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRail, rail.Name)
		}
		seen[rail.Name] = struct{}{}

		if err := rail.Validate(); err != nil {
			return fmt.Errorf("rail %q: %w", rail.Name, err)
		}
	}
	return nil
}

// Validate checks a single rail configuration.
func (r *RailConfig) Validate() error {
	if len(r.Supplies) == 0 {
		return ErrNoSupplies
	}
	for i, s := range r.Supplies {
		if s.Name == "" {
			return fmt.Errorf("%w (index %d)", ErrUnnamedSupply, i)
		}
		if s.MinMicrovolts > s.MaxMicrovolts {
			return fmt.Errorf("%w: supply %q min %d > max %d",
				ErrVoltageWindow, s.Name, s.MinMicrovolts, s.MaxMicrovolts)
		}
	}
	return nil
}

// Rail returns the rail configuration with the given name, if present.
func (c *Config) Rail(name string) (RailConfig, bool) {
	for _, r := range c.Rails {
		if r.Name == name {
			return r, true
		}
	}
	return RailConfig{}, false
}
