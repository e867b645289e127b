package sonic

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/newtron-network/vlanconf/internal/testutil"
	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/util"
)

type fakeExecutor struct {
	failOn string
	ran    []string
	closed bool
}

func (f *fakeExecutor) ExecCommand(_ context.Context, cmd string) (string, error) {
	f.ran = append(f.ran, cmd)
	if cmd == f.failOn {
		return "Error: No such command\n", errors.New("Process exited with status 2")
	}
	return "", nil
}

func (f *fakeExecutor) Close() error {
	f.closed = true
	return nil
}

func newTestSession(t *testing.T, exec *fakeExecutor) *Session {
	t.Helper()
	addr := testutil.SeededConfigDB(t)
	return NewSession("leaf1", NewConfigDBClient(addr), exec)
}

func TestRegistered(t *testing.T) {
	if _, err := device.Lookup(Name); err != nil {
		t.Fatalf("Lookup(%q) error = %v", Name, err)
	}
}

func TestOpen_RejectsTelnet(t *testing.T) {
	d := &Driver{}
	_, err := d.Open(context.Background(), "leaf1", device.Credentials{Transport: device.TransportTelnet})
	if err == nil {
		t.Error("Open() with telnet should fail")
	}
}

func TestSession_InterfaceVlans(t *testing.T) {
	s := newTestSession(t, &fakeExecutor{})
	defer s.Close()

	table, err := s.InterfaceVlans(testutil.Context(t))
	if err != nil {
		t.Fatalf("InterfaceVlans() error = %v", err)
	}
	if v, _ := table.Get("Ethernet0"); v.String() != "10" {
		t.Errorf("Ethernet0 = %q, want 10", v)
	}
}

func TestSession_SendConfig(t *testing.T) {
	exec := &fakeExecutor{}
	s := newTestSession(t, exec)
	defer s.Close()

	lines := []string{
		"# Ethernet0",
		"sudo config interface description Ethernet0 vlan10",
		"",
		"sudo config interface startup Ethernet0",
	}
	if _, err := s.SendConfig(testutil.Context(t), lines); err != nil {
		t.Fatalf("SendConfig() error = %v", err)
	}
	want := []string{
		"sudo config interface description Ethernet0 vlan10",
		"sudo config interface startup Ethernet0",
	}
	if !reflect.DeepEqual(exec.ran, want) {
		t.Errorf("ran = %v, want %v", exec.ran, want)
	}
}

func TestSession_SendConfigStopsAtFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "bad"}
	s := newTestSession(t, exec)
	defer s.Close()

	_, err := s.SendConfig(testutil.Context(t), []string{"first", "bad", "never"})
	if !errors.Is(err, util.ErrCommandRejected) {
		t.Fatalf("SendConfig() error = %v, want ErrCommandRejected", err)
	}
	if !reflect.DeepEqual(exec.ran, []string{"first", "bad"}) {
		t.Errorf("ran = %v", exec.ran)
	}
}

func TestSession_SaveAndClose(t *testing.T) {
	exec := &fakeExecutor{}
	s := newTestSession(t, exec)

	if err := s.SaveConfig(testutil.Context(t)); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if exec.ran[0] != saveCommand {
		t.Errorf("ran = %v, want %q", exec.ran, saveCommand)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !exec.closed {
		t.Error("executor not closed")
	}
}

func TestSession_SaveFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: saveCommand}
	s := newTestSession(t, exec)
	defer s.Close()

	if err := s.SaveConfig(testutil.Context(t)); !errors.Is(err, util.ErrCommandRejected) {
		t.Errorf("SaveConfig() error = %v, want ErrCommandRejected", err)
	}
}

func TestSession_UseAfterClose(t *testing.T) {
	exec := &fakeExecutor{}
	s := newTestSession(t, exec)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := testutil.Context(t)
	if _, err := s.InterfaceVlans(ctx); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("InterfaceVlans() after Close error = %v, want ErrNotConnected", err)
	}
	if _, err := s.SendConfig(ctx, []string{"config vlan add 10"}); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("SendConfig() after Close error = %v, want ErrNotConnected", err)
	}
	if err := s.SaveConfig(ctx); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("SaveConfig() after Close error = %v, want ErrNotConnected", err)
	}
	if len(exec.ran) != 0 {
		t.Errorf("ran = %v after Close, want none", exec.ran)
	}
}
