// Package dispatch delivers a rendered device configuration either to a
// staging file or to the device itself.
package dispatch

import (
	"context"
	"fmt"
	"strings"
)

// Sink consumes one device's configuration.
type Sink interface {
	Name() string
	Dispatch(ctx context.Context, device, config string) error
}

// OutputReporter is implemented by sinks that capture the device's
// response to the last dispatch.
type OutputReporter interface {
	Output(device string) string
}

// WriteError is returned when a staged artifact cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Push stages.
const (
	StageOpen   = "open"
	StageSubmit = "submit"
	StageSave   = "save"
)

// PushError is returned when configuration cannot be applied to a device.
type PushError struct {
	Stage string // StageOpen, StageSubmit or StageSave
	Err   error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push failed at %s: %v", e.Stage, e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}

// SplitCommands turns a device configuration into the ordered command set
// sent to the device. CRs are stripped and blank lines dropped.
func SplitCommands(config string) []string {
	var cmds []string
	for _, line := range strings.Split(config, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds
}
