// Package inventory reads the list of target devices.
package inventory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultPath is the device list used when none is given.
const DefaultPath = "inputs/target_devices"

// ReadDevices reads a newline-delimited device list from path.
func ReadDevices(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading device list: %w", err)
	}
	defer f.Close()

	devices, err := ParseDevices(f)
	if err != nil {
		return nil, fmt.Errorf("reading device list %s: %w", path, err)
	}
	return devices, nil
}

// ParseDevices returns one identifier per line with surrounding whitespace
// trimmed. Blank lines are kept as empty identifiers so the device count
// matches the line count; they fail at query time. A trailing newline does
// not add an entry.
func ParseDevices(r io.Reader) ([]string, error) {
	var devices []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		devices = append(devices, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}
