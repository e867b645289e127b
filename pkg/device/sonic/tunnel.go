package sonic

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/vlanconf/pkg/device/cliconn"
)

// redisAddr is where CONFIG_DB listens inside the switch. It is not exposed
// on the management interface, so it is reached through SSH forwarding.
const redisAddr = "127.0.0.1:6379"

// SSHTunnel forwards a local TCP port to Redis on the switch and runs
// one-shot commands over the same SSH connection.
type SSHTunnel struct {
	localAddr string
	sshClient *ssh.Client
	listener  net.Listener
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewSSHTunnel dials SSH and opens a local listener on a random port.
func NewSSHTunnel(cfg cliconn.SSHConfig) (*SSHTunnel, error) {
	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	sshClient, err := ssh.Dial("tcp", cfg.Addr(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", cfg.Addr(), err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("local listen: %w", err)
	}

	t := &SSHTunnel{
		localAddr: listener.Addr().String(),
		sshClient: sshClient,
		listener:  listener,
		done:      make(chan struct{}),
	}

	t.wg.Add(1)
	go t.acceptLoop()

	return t, nil
}

// LocalAddr returns the local address that forwards to CONFIG_DB's Redis.
func (t *SSHTunnel) LocalAddr() string {
	return t.localAddr
}

// Close stops the listener, waits for forwarders and closes SSH.
func (t *SSHTunnel) Close() error {
	close(t.done)
	t.listener.Close()
	err := t.sshClient.Close()
	t.wg.Wait()
	return err
}

func (t *SSHTunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		local, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		t.wg.Add(1)
		go t.forward(local)
	}
}

func (t *SSHTunnel) forward(local net.Conn) {
	defer t.wg.Done()
	defer local.Close()

	remote, err := t.sshClient.Dial("tcp", redisAddr)
	if err != nil {
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(local, remote)
		done <- struct{}{}
	}()
	select {
	case <-done:
	case <-t.done:
	}
}

// ExecCommand runs cmd in a fresh SSH session and returns combined output.
// Cancelling ctx closes the session.
func (t *SSHTunnel) ExecCommand(ctx context.Context, cmd string) (string, error) {
	session, err := t.sshClient.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(cmd)
		ch <- result{out, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return string(r.out), fmt.Errorf("SSH exec '%s': %w", cmd, r.err)
		}
		return string(r.out), nil
	case <-ctx.Done():
		session.Close()
		return "", fmt.Errorf("SSH exec '%s': %w", cmd, ctx.Err())
	}
}
