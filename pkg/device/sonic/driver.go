package sonic

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/device/cliconn"
	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Name is the registry name of this driver.
const Name = "sonic"

const saveCommand = "sudo config save -y"

// Executor runs one-shot shell commands on the switch.
type Executor interface {
	ExecCommand(ctx context.Context, cmd string) (string, error)
	Close() error
}

// Driver opens SONiC sessions over an SSH tunnel.
type Driver struct{}

func init() {
	device.Register(&Driver{})
}

// Name implements device.Driver.
func (d *Driver) Name() string { return Name }

// Open dials SSH, forwards CONFIG_DB and verifies Redis answers. Telnet is
// not supported since CONFIG_DB is only reachable through SSH forwarding.
func (d *Driver) Open(ctx context.Context, host string, creds device.Credentials) (device.Session, error) {
	if creds.Transport == device.TransportTelnet {
		return nil, fmt.Errorf("%s: driver %s requires ssh transport", host, Name)
	}

	tunnel, err := NewSSHTunnel(cliconn.SSHConfig{
		Host:       host,
		Port:       creds.EffectivePort(),
		User:       creds.Username,
		Password:   creds.Password,
		KnownHosts: creds.KnownHosts,
		Config:     cliconn.Config{Timeout: creds.EffectiveTimeout()},
	})
	if err != nil {
		return nil, device.ClassifyDialError(host, err)
	}

	db := NewConfigDBClient(tunnel.LocalAddr())
	if err := db.Connect(ctx); err != nil {
		db.Close()
		tunnel.Close()
		return nil, fmt.Errorf("%s: config_db connect: %w", host, err)
	}

	util.WithDevice(host).Debugf("SONiC session open, CONFIG_DB via %s", tunnel.LocalAddr())
	return NewSession(host, db, tunnel), nil
}

// Session reads CONFIG_DB and runs commands through exec.
type Session struct {
	host   string
	db     *ConfigDBClient
	exec   Executor
	closed bool
}

// NewSession wraps an open CONFIG_DB client and command executor.
func NewSession(host string, db *ConfigDBClient, exec Executor) *Session {
	return &Session{host: host, db: db, exec: exec}
}

// InterfaceVlans implements device.Session.
func (s *Session) InterfaceVlans(ctx context.Context) (*vlan.Table, error) {
	if s.closed {
		return nil, util.ErrNotConnected
	}
	snap, err := s.db.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.host, err)
	}
	return snap.InterfaceTable(), nil
}

// SendConfig runs each line as a shell command, stopping at the first one
// that fails. Blank lines and "#" or "!" comments are skipped.
func (s *Session) SendConfig(ctx context.Context, lines []string) (string, error) {
	if s.closed {
		return "", util.ErrNotConnected
	}
	var transcript strings.Builder
	for _, line := range lines {
		cmd := strings.TrimSpace(line)
		if cmd == "" || strings.HasPrefix(cmd, "#") || strings.HasPrefix(cmd, "!") {
			continue
		}
		out, err := s.exec.ExecCommand(ctx, cmd)
		transcript.WriteString(cmd)
		transcript.WriteString("\n")
		transcript.WriteString(out)
		if err != nil {
			return transcript.String(), fmt.Errorf("%s: %w: %v", s.host, util.NewCommandError(cmd, out), err)
		}
	}
	return transcript.String(), nil
}

// SaveConfig writes the running config to /etc/sonic/config_db.json.
func (s *Session) SaveConfig(ctx context.Context) error {
	if s.closed {
		return util.ErrNotConnected
	}
	out, err := s.exec.ExecCommand(ctx, saveCommand)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", s.host, util.NewCommandError(saveCommand, out), err)
	}
	return nil
}

// Close closes CONFIG_DB and the tunnel.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	dbErr := s.db.Close()
	if err := s.exec.Close(); err != nil {
		return err
	}
	return dbErr
}
