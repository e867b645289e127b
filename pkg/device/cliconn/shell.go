// Package cliconn provides an interactive, prompt-driven CLI session to a
// network device over SSH or telnet.
package cliconn

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultPrompt matches a privileged or user-mode CLI prompt at the end of
// the output, e.g. "sw1#", "sw1>", "sw1(config-if)#".
var DefaultPrompt = regexp.MustCompile(`[\w.\-@:/()]+[>#] ?$`)

// Shell sends one command at a time and returns the output produced before
// the next prompt.
type Shell interface {
	Send(ctx context.Context, cmd string) (string, error)
	Close() error
}

// Config tunes a shell.
type Config struct {
	Prompt  *regexp.Regexp
	Timeout time.Duration // per exchange; 0 means no timeout beyond ctx
}

type shell struct {
	w       io.Writer
	closers []io.Closer
	prompt  *regexp.Regexp
	timeout time.Duration

	chunks  chan []byte
	done    chan struct{}
	readErr error
	buf     []byte

	closeOnce sync.Once
	closeErr  error
}

// newShell starts reading r in the background. Closers run in order on Close.
func newShell(r io.Reader, w io.Writer, cfg Config, closers ...io.Closer) *shell {
	if cfg.Prompt == nil {
		cfg.Prompt = DefaultPrompt
	}
	s := &shell{
		w:       w,
		closers: closers,
		prompt:  cfg.Prompt,
		timeout: cfg.Timeout,
		chunks:  make(chan []byte, 16),
		done:    make(chan struct{}),
	}
	go s.readLoop(r)
	return s
}

func (s *shell) readLoop(r io.Reader) {
	defer close(s.chunks)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b := make([]byte, n)
			copy(b, buf[:n])
			select {
			case s.chunks <- b:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr = err
			return
		}
	}
}

// expect reads until one of res matches the buffered output and returns the
// index of the first matching expression with the text up to the match end.
func (s *shell) expect(ctx context.Context, res ...*regexp.Regexp) (int, string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for {
		for i, re := range res {
			if loc := re.FindIndex(s.buf); loc != nil {
				out := string(s.buf[:loc[1]])
				s.buf = s.buf[loc[1]:]
				return i, out, nil
			}
		}

		select {
		case b, ok := <-s.chunks:
			if !ok {
				err := s.readErr
				if err == nil || err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return -1, string(s.buf), fmt.Errorf("connection closed while waiting for prompt: %w", err)
			}
			s.buf = append(s.buf, b...)
		case <-ctx.Done():
			return -1, string(s.buf), fmt.Errorf("waiting for prompt: %w", ctx.Err())
		}
	}
}

func (s *shell) writeLine(line string) error {
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// Send writes cmd and waits for the prompt. The echoed command and the
// trailing prompt are stripped from the returned output.
func (s *shell) Send(ctx context.Context, cmd string) (string, error) {
	if err := s.writeLine(cmd); err != nil {
		return "", fmt.Errorf("sending %q: %w", cmd, err)
	}
	_, raw, err := s.expect(ctx, s.prompt)
	if err != nil {
		return cleanOutput(raw, cmd), fmt.Errorf("%q: %w", cmd, err)
	}
	return cleanOutput(raw, cmd), nil
}

// Close stops the reader and closes the underlying connection.
func (s *shell) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		for _, c := range s.closers {
			if err := c.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// cleanOutput normalizes line endings, drops the command echo on the first
// line and the prompt on the last.
func cleanOutput(raw, cmd string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "")

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.Contains(lines[0], strings.TrimSpace(cmd)) {
		lines = lines[1:]
	}
	if len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
