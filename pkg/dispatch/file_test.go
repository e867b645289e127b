package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSink_Dispatch(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: dir}

	config := "interface Gi1/0/1\n description vlan 92"
	if err := sink.Dispatch(context.Background(), "sw1", config); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sw1.txt"))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != config {
		t.Errorf("artifact = %q, want %q", data, config)
	}
}

func TestFileSink_EmptyConfigWritesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: dir}

	if err := sink.Dispatch(context.Background(), "sw1", ""); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "sw1.txt"))
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}
}

func TestFileSink_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: dir}
	ctx := context.Background()

	if err := sink.Dispatch(ctx, "sw1", "a much longer first configuration"); err != nil {
		t.Fatal(err)
	}
	if err := sink.Dispatch(ctx, "sw1", "short"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "sw1.txt"))
	if string(data) != "short" {
		t.Errorf("artifact = %q, want %q", data, "short")
	}
}

func TestFileSink_WriteError(t *testing.T) {
	sink := &FileSink{Dir: filepath.Join(t.TempDir(), "missing")}

	err := sink.Dispatch(context.Background(), "sw1", "x")
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Dispatch() error = %v, want *WriteError", err)
	}
	if we.Path != sink.Path("sw1") {
		t.Errorf("WriteError.Path = %q, want %q", we.Path, sink.Path("sw1"))
	}
}

func TestFileSink_Path(t *testing.T) {
	tests := []struct {
		dir, device, want string
	}{
		{"", "sw1", "sw1.txt"},
		{"out", "10.0.0.1", filepath.Join("out", "10.0.0.1.txt")},
		{"out", "a/b", filepath.Join("out", "a-b.txt")},
	}
	for _, tt := range tests {
		if got := (&FileSink{Dir: tt.dir}).Path(tt.device); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.device, got, tt.want)
		}
	}
}
