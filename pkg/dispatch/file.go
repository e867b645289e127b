package dispatch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/newtron-network/vlanconf/pkg/util"
)

// FileSink stages each configuration as <Dir>/<device>.txt.
type FileSink struct {
	Dir string
}

// Name implements Sink.
func (s *FileSink) Name() string { return "stage" }

// Path returns the artifact path for device.
func (s *FileSink) Path(device string) string {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, util.SanitizeFileName(device)+".txt")
}

// Dispatch writes config verbatim, truncating any earlier artifact. An
// empty config still produces an empty file.
func (s *FileSink) Dispatch(_ context.Context, device, config string) (err error) {
	path := s.Path(device)

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	if _, err := f.WriteString(config); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	util.WithDevice(device).Debugf("staged %d bytes to %s", len(config), path)
	return nil
}
