// Package ios implements the device driver for Cisco IOS-style CLIs reached
// over SSH or telnet.
package ios

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/device/cliconn"
	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Name is the registry name of this driver.
const Name = "ios"

const (
	showStatusCommand = "show interface status"
	enterConfig       = "configure terminal"
	exitConfig        = "end"
	saveCommand       = "write memory"
)

// sessionSetup disables paging so command output arrives in one piece.
var sessionSetup = []string{"terminal length 0", "terminal width 511"}

// errorMarker matches IOS error lines such as "% Invalid input detected".
var errorMarker = regexp.MustCompile(`(?m)^\s*% ?(Invalid|Incomplete|Ambiguous|Unknown|Error|Bad)`)

// DialFunc opens the CLI shell. Tests replace it to avoid the network.
type DialFunc func(ctx context.Context, host string, creds device.Credentials) (cliconn.Shell, error)

// Driver opens IOS CLI sessions.
type Driver struct {
	Dial DialFunc
}

func init() {
	device.Register(&Driver{})
}

// Name implements device.Driver.
func (d *Driver) Name() string { return Name }

// Open connects to host and prepares the terminal.
func (d *Driver) Open(ctx context.Context, host string, creds device.Credentials) (device.Session, error) {
	dial := d.Dial
	if dial == nil {
		dial = dialShell
	}

	sh, err := dial(ctx, host, creds)
	if err != nil {
		return nil, device.ClassifyDialError(host, err)
	}

	for _, cmd := range sessionSetup {
		if _, err := sh.Send(ctx, cmd); err != nil {
			sh.Close()
			return nil, fmt.Errorf("%s: %q: %w", host, cmd, err)
		}
	}

	util.WithDevice(host).Debugf("IOS session open via %s", transportOf(creds))
	return &Session{host: host, shell: sh}, nil
}

func transportOf(creds device.Credentials) device.Transport {
	if creds.Transport == "" {
		return device.TransportSSH
	}
	return creds.Transport
}

func dialShell(ctx context.Context, host string, creds device.Credentials) (cliconn.Shell, error) {
	cfg := cliconn.Config{Timeout: creds.EffectiveTimeout()}
	switch transportOf(creds) {
	case device.TransportSSH:
		return cliconn.DialSSH(ctx, cliconn.SSHConfig{
			Host:       host,
			Port:       creds.EffectivePort(),
			User:       creds.Username,
			Password:   creds.Password,
			KnownHosts: creds.KnownHosts,
			Config:     cfg,
		})
	case device.TransportTelnet:
		return cliconn.DialTelnet(ctx, cliconn.TelnetConfig{
			Host:     host,
			Port:     creds.EffectivePort(),
			User:     creds.Username,
			Password: creds.Password,
			Config:   cfg,
		})
	default:
		return nil, fmt.Errorf("unsupported transport %q", creds.Transport)
	}
}

// Session is an open IOS CLI session.
type Session struct {
	host  string
	shell cliconn.Shell
}

// InterfaceVlans runs `show interface status` and normalizes its output.
func (s *Session) InterfaceVlans(ctx context.Context) (*vlan.Table, error) {
	out, err := s.shell.Send(ctx, showStatusCommand)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.host, err)
	}
	if errorMarker.MatchString(out) {
		return nil, util.NewCommandError(showStatusCommand, out)
	}
	table, err := vlan.ParseInterfaceStatus(out)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing interface status: %w", s.host, err)
	}
	return table, nil
}

// SendConfig enters configuration mode, sends lines in order and returns
// to exec mode. The first line the device rejects aborts the remainder.
func (s *Session) SendConfig(ctx context.Context, lines []string) (string, error) {
	var transcript strings.Builder

	send := func(cmd string) error {
		out, err := s.shell.Send(ctx, cmd)
		transcript.WriteString(cmd)
		transcript.WriteString("\n")
		if out != "" {
			transcript.WriteString(out)
			transcript.WriteString("\n")
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s.host, err)
		}
		if errorMarker.MatchString(out) {
			return util.NewCommandError(cmd, out)
		}
		return nil
	}

	if err := send(enterConfig); err != nil {
		return transcript.String(), err
	}
	for _, line := range lines {
		if err := send(line); err != nil {
			// Leave config mode so a reused session is back at exec level.
			s.shell.Send(ctx, exitConfig)
			return transcript.String(), err
		}
	}
	if err := send(exitConfig); err != nil {
		return transcript.String(), err
	}
	return transcript.String(), nil
}

// SaveConfig runs `write memory`.
func (s *Session) SaveConfig(ctx context.Context) error {
	out, err := s.shell.Send(ctx, saveCommand)
	if err != nil {
		return fmt.Errorf("%s: %w", s.host, err)
	}
	if errorMarker.MatchString(out) {
		return util.NewCommandError(saveCommand, out)
	}
	return nil
}

// Close ends the CLI session.
func (s *Session) Close() error {
	return s.shell.Close()
}
