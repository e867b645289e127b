package cliconn

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/newtron-network/vlanconf/pkg/util"
)

// SSHConfig holds what is needed to open an interactive SSH shell.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	KnownHosts string // known_hosts file; empty disables host key checking
	Config
}

// ClientConfig builds the x/crypto/ssh client configuration. Password and
// keyboard-interactive are both offered since IOS images differ in which
// one they accept.
func (c SSHConfig) ClientConfig() (*ssh.ClientConfig, error) {
	hostKey := ssh.InsecureIgnoreHostKey()
	if c.KnownHosts != "" {
		cb, err := knownhosts.New(c.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known hosts %s: %w", c.KnownHosts, err)
		}
		hostKey = cb
	} else {
		util.Debugf("SSH to %s: host key verification disabled", c.Host)
	}

	password := c.Password
	return &ssh.ClientConfig{
		User: c.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKey,
		Timeout:         c.Timeout,
	}, nil
}

// Addr returns host:port, defaulting the port to 22.
func (c SSHConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// DialSSH connects, requests a PTY and an interactive shell, and waits for
// the first prompt.
func DialSSH(ctx context.Context, cfg SSHConfig) (Shell, error) {
	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	client, err := ssh.Dial("tcp", cfg.Addr(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s@%s: %w", cfg.User, cfg.Addr(), err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("SSH session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 38400,
		ssh.TTY_OP_OSPEED: 38400,
	}
	if err := session.RequestPty("vt100", 0, 511, modes); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("SSH pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("SSH stdin: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("SSH stdout: %w", err)
	}
	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("SSH shell: %w", err)
	}

	s := newShell(stdout, stdin, cfg.Config, session, client)
	if _, _, err := s.expect(ctx, s.prompt); err != nil {
		s.Close()
		return nil, fmt.Errorf("SSH %s: %w", cfg.Addr(), err)
	}
	return s, nil
}
