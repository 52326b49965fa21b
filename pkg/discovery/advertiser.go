package discovery

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Service constants for controller advertisement.
const (
	// ServiceType is the mDNS service type browsed by monitoring tools.
	ServiceType = "_railseq._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is advertised when no port is configured.
	DefaultPort = 9465
)

// ErrNotAdvertising indicates Update or Stop without a prior Advertise.
var ErrNotAdvertising = errors.New("not advertising")

// Info describes the advertised controller.
type Info struct {
	// Instance is the advertised instance name (e.g. hostname).
	Instance string

	// Port is the advertised port. Zero means DefaultPort.
	Port int

	// RailCount is the number of registered rails.
	RailCount int

	// EnabledCount is the number of currently enabled rails.
	EnabledCount int
}

// txtRecords encodes the controller summary as TXT records.
func (i *Info) txtRecords() []string {
	return []string{
		fmt.Sprintf("rails=%d", i.RailCount),
		fmt.Sprintf("enabled=%d", i.EnabledCount),
	}
}

// Config configures advertiser behavior.
type Config struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultConfig returns the default advertiser configuration.
func DefaultConfig() Config {
	return Config{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// Advertiser announces a railseq controller over mDNS.
type Advertiser struct {
	config Config

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates a new mDNS advertiser.
func NewAdvertiser(config Config) *Advertiser {
	return &Advertiser{config: config}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *Advertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising the controller.
// A previous advertisement is replaced.
func (a *Advertiser) Advertise(info *Info) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	port := info.Port
	if port == 0 {
		port = DefaultPort
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.Instance,
		ServiceType,
		Domain,
		port,
		info.txtRecords(),
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register controller service: %w", err)
	}

	a.server = server
	return nil
}

// Update refreshes the advertised TXT records.
func (a *Advertiser) Update(info *Info) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}

	a.server.SetText(info.txtRecords())
	return nil
}

// Stop stops advertising. It is safe to call Stop multiple times.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
