package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// FakeDevice scripts how one host behaves behind a FakeDriver.
type FakeDevice struct {
	Status     string // raw `show interface status` output
	OpenErr    error
	QueryErr   error
	SendErr    error
	SaveErr    error
	SendOutput string
}

// FakeDriver is an in-memory device.Driver keyed by host.
type FakeDriver struct {
	DriverName string
	Devices    map[string]*FakeDevice

	mu       sync.Mutex
	sessions []*FakeSession
}

// NewFakeDriver returns a driver named "fake" with the given devices.
func NewFakeDriver(devices map[string]*FakeDevice) *FakeDriver {
	return &FakeDriver{DriverName: "fake", Devices: devices}
}

// Name implements device.Driver.
func (d *FakeDriver) Name() string { return d.DriverName }

// Open implements device.Driver. Unknown hosts fail like unreachable devices.
func (d *FakeDriver) Open(_ context.Context, host string, _ device.Credentials) (device.Session, error) {
	dev, ok := d.Devices[host]
	if !ok {
		return nil, device.ClassifyDialError(host, fmt.Errorf("dial tcp %s:22: no route to host", host))
	}
	if dev.OpenErr != nil {
		return nil, dev.OpenErr
	}
	s := &FakeSession{Host: host, dev: dev}
	d.mu.Lock()
	d.sessions = append(d.sessions, s)
	d.mu.Unlock()
	return s, nil
}

// Sessions returns every session opened so far.
func (d *FakeDriver) Sessions() []*FakeSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeSession(nil), d.sessions...)
}

// SessionsFor returns the sessions opened to host.
func (d *FakeDriver) SessionsFor(host string) []*FakeSession {
	var out []*FakeSession
	for _, s := range d.Sessions() {
		if s.Host == host {
			out = append(out, s)
		}
	}
	return out
}

// FakeSession records what was sent to it.
type FakeSession struct {
	Host string
	dev  *FakeDevice

	mu     sync.Mutex
	Sent   [][]string
	Saved  int
	Closed bool
}

// InterfaceVlans implements device.Session.
func (s *FakeSession) InterfaceVlans(context.Context) (*vlan.Table, error) {
	if s.dev.QueryErr != nil {
		return nil, s.dev.QueryErr
	}
	return vlan.ParseInterfaceStatus(s.dev.Status)
}

// SendConfig implements device.Session.
func (s *FakeSession) SendConfig(_ context.Context, lines []string) (string, error) {
	s.mu.Lock()
	s.Sent = append(s.Sent, append([]string(nil), lines...))
	s.mu.Unlock()
	return s.dev.SendOutput, s.dev.SendErr
}

// SaveConfig implements device.Session.
func (s *FakeSession) SaveConfig(context.Context) error {
	if s.dev.SaveErr != nil {
		return s.dev.SaveErr
	}
	s.mu.Lock()
	s.Saved++
	s.mu.Unlock()
	return nil
}

// Close implements device.Session.
func (s *FakeSession) Close() error {
	s.mu.Lock()
	s.Closed = true
	s.mu.Unlock()
	return nil
}

// IsClosed reports whether Close was called.
func (s *FakeSession) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Closed
}
