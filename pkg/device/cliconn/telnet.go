package cliconn

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"

	"github.com/ziutek/telnet"

	"github.com/newtron-network/vlanconf/pkg/util"
)

var (
	loginPromptRegexp    = regexp.MustCompile(`(?i)(login|user\s*name|username)\s*:\s*$`)
	passwordPromptRegexp = regexp.MustCompile(`(?i)password\s*:\s*$`)
	loginFailedRegexp    = regexp.MustCompile(`(?i)(authentication failed|login invalid|login incorrect|access denied|bad passwords)`)
	newlineRegexp        = regexp.MustCompile(`\r?\n`)
)

// TelnetConfig holds what is needed to log in over telnet.
type TelnetConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Config
}

// Addr returns host:port, defaulting the port to 23.
func (c TelnetConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = 23
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// DialTelnet connects and walks the login dialogue up to the first prompt.
func DialTelnet(ctx context.Context, cfg TelnetConfig) (Shell, error) {
	conn, err := telnet.DialTimeout("tcp", cfg.Addr(), cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("telnet dial %s: %w", cfg.Addr(), err)
	}
	conn.SetUnixWriteMode(true)

	s := newShell(conn, conn, cfg.Config, conn)
	if err := s.login(ctx, cfg.User, cfg.Password); err != nil {
		s.Close()
		return nil, fmt.Errorf("telnet %s: %w", cfg.Addr(), err)
	}
	return s, nil
}

// login answers username and password prompts until the CLI prompt shows.
// Devices configured for password-only login skip the username step.
func (s *shell) login(ctx context.Context, user, password string) error {
	sentUser, sentPassword := false, false
	for {
		idx, out, err := s.expect(ctx, loginFailedRegexp, passwordPromptRegexp, loginPromptRegexp, s.prompt)
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return fmt.Errorf("%w: %s", util.ErrAuthenticationFailed, lastLine(out))
		case 1:
			if sentPassword {
				return fmt.Errorf("%w: password prompt repeated", util.ErrAuthenticationFailed)
			}
			sentPassword = true
			if err := s.writeLine(password); err != nil {
				return err
			}
		case 2:
			if sentUser {
				return fmt.Errorf("%w: login prompt repeated", util.ErrAuthenticationFailed)
			}
			sentUser = true
			if err := s.writeLine(user); err != nil {
				return err
			}
		case 3:
			return nil
		}
	}
}

func lastLine(s string) string {
	lines := newlineRegexp.Split(s, -1)
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}
	return s
}
