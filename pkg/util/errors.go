// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the drivers, the pipeline, and the CLI
var (
	ErrNotConnected         = errors.New("device not connected")
	ErrDeviceUnreachable    = errors.New("device unreachable")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrMalformedRow         = errors.New("malformed interface row")
	ErrCommandRejected      = errors.New("command rejected by device")
	ErrNoTargets            = errors.New("no target VLANs specified")
	ErrInvalidVLAN          = errors.New("invalid VLAN")
)

// MalformedRowError is returned when an interface status row carries no
// recognizable VLAN column.
type MalformedRowError struct {
	Line int    // 1-based line number in the raw output
	Text string // the offending row
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: no VLAN or trunk column in %q", e.Line, strings.TrimSpace(e.Text))
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}

// NewMalformedRowError creates a malformed row error
func NewMalformedRowError(line int, text string) *MalformedRowError {
	return &MalformedRowError{Line: line, Text: text}
}

// CommandError is returned when a device answers a command with an error marker.
type CommandError struct {
	Command string
	Output  string
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q rejected", e.Command)
	}
	return fmt.Sprintf("command %q rejected: %s", e.Command, out)
}

func (e *CommandError) Unwrap() error {
	return ErrCommandRejected
}

// NewCommandError creates a command error
func NewCommandError(command, output string) *CommandError {
	return &CommandError{Command: command, Output: output}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
