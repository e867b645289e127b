// Package cli provides shared formatting helpers for the vlanconf CLI.
package cli

import (
	"os"
	"strings"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

// Style is the presentation class of a message.
type Style int

const (
	StylePlain Style = iota
	StyleSuccess
	StyleWarning
	StyleError
	StyleHeader
	StyleMuted
)

var styleCodes = map[Style]string{
	StyleSuccess: "\033[32m",
	StyleWarning: "\033[33m",
	StyleError:   "\033[31m",
	StyleHeader:  "\033[1m",
	StyleMuted:   "\033[2m",
}

// Format renders msg in style, honouring NO_COLOR.
func Format(style Style, msg string) string {
	return FormatColor(style, msg, colorEnabled)
}

// FormatColor renders msg in style with ANSI codes when color is true.
func FormatColor(style Style, msg string, color bool) string {
	code, ok := styleCodes[style]
	if !color || !ok {
		return msg
	}
	return code + msg + "\033[0m"
}

// DotPad pads name with dots to the given width.
// Example: DotPad("sw1", 12) → "sw1 ........"
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
