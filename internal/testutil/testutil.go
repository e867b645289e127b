// Package testutil provides test helpers shared across packages: fake
// device drivers, an in-process CONFIG_DB and seed fixtures.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// SeedPath returns the absolute path of a seed file under testdata/seed/.
func SeedPath(name string) string {
	return filepath.Join(testdataDir(), "seed", name)
}

// testdataDir locates testdata/ next to this file.
func testdataDir() string {
	if dir := os.Getenv("VLANCONF_TESTDATA_DIR"); dir != "" {
		return dir
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "testdata")
}

// Context returns a context that times out after 30 seconds and is
// cancelled when the test ends.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// WriteFile writes content to name inside a fresh temp dir and returns the
// full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
