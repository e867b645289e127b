// Package device defines the driver contract used to query and configure
// switches, and the registry of available drivers.
package device

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// DefaultTimeout bounds dialing and each command exchange when the caller
// does not set one.
const DefaultTimeout = 30 * time.Second

// Transport selects how a CLI driver reaches the device.
type Transport string

const (
	TransportSSH    Transport = "ssh"
	TransportTelnet Transport = "telnet"
)

// Credentials are read once per run and shared read-only across devices.
type Credentials struct {
	Username  string
	Password  string
	Transport Transport
	Port      int           // 0 selects the transport default
	Timeout   time.Duration // 0 selects DefaultTimeout

	// KnownHosts is an OpenSSH known_hosts file. Empty disables host key
	// verification.
	KnownHosts string
}

// EffectiveTimeout returns Timeout or DefaultTimeout.
func (c Credentials) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// EffectivePort returns Port or the default port of the transport.
func (c Credentials) EffectivePort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.Transport == TransportTelnet {
		return 23
	}
	return 22
}

// Session is an open connection to one device. Callers must Close it.
type Session interface {
	// InterfaceVlans returns the live interface-to-VLAN mapping.
	InterfaceVlans(ctx context.Context) (*vlan.Table, error)

	// SendConfig submits an ordered command set and returns the device output.
	SendConfig(ctx context.Context, lines []string) (string, error)

	// SaveConfig persists the running configuration.
	SaveConfig(ctx context.Context) error

	Close() error
}

// Driver opens sessions to one family of devices.
type Driver interface {
	Name() string
	Open(ctx context.Context, host string, creds Credentials) (Session, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Driver{}
)

// Register makes a driver available by name. Registering the same name
// twice replaces the earlier driver.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name()] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (available: %s)", name, strings.Join(driverNames(), ", "))
	}
	return d, nil
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return driverNames()
}

func driverNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
