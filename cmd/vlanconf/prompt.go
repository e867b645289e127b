package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter asks the operator for missing inputs. Prompts are only issued
// when stdin is a terminal.
type prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	readSecret  func() (string, error)

	reader *bufio.Reader
}

func newPrompter() *prompter {
	fd := int(os.Stdin.Fd())
	return &prompter{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: term.IsTerminal(fd),
		readSecret: func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		},
	}
}

// line prompts for a visible value. what names the value in errors.
func (p *prompter) line(label, what string) (string, error) {
	if !p.interactive {
		return "", fmt.Errorf("%s required and stdin is not a terminal", what)
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	fmt.Fprint(p.out, label)
	s, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("reading %s: %w", what, err)
	}
	return strings.TrimSpace(s), nil
}

// secret prompts for a value without echo.
func (p *prompter) secret(label, what string) (string, error) {
	if !p.interactive {
		return "", fmt.Errorf("%s required and stdin is not a terminal", what)
	}
	fmt.Fprint(p.out, label)
	s, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", what, err)
	}
	return s, nil
}
