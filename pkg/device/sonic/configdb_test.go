package sonic

import (
	"reflect"
	"testing"

	"github.com/newtron-network/vlanconf/internal/testutil"
)

func TestSnapshot(t *testing.T) {
	addr := testutil.SeededConfigDB(t)
	db := NewConfigDBClient(addr)
	defer db.Close()

	ctx := testutil.Context(t)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	snap, err := db.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Ports) != 6 {
		t.Errorf("Ports = %v, want 6", snap.Ports)
	}
	if !reflect.DeepEqual(snap.PortChannels, []string{"PortChannel1"}) {
		t.Errorf("PortChannels = %v", snap.PortChannels)
	}
	if len(snap.VLANMembers) != 5 {
		t.Errorf("VLANMembers = %v, want 5", snap.VLANMembers)
	}
	if !snap.RoutedInterfaces["Ethernet12"] {
		t.Error("Ethernet12 should be routed")
	}
	if snap.PortChannelMembers["Ethernet16"] != "PortChannel1" {
		t.Errorf("PortChannelMembers = %v", snap.PortChannelMembers)
	}
}

func TestInterfaceTable(t *testing.T) {
	addr := testutil.SeededConfigDB(t)
	db := NewConfigDBClient(addr)
	defer db.Close()

	snap, err := db.Snapshot(testutil.Context(t))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	table := snap.InterfaceTable()

	want := []struct{ label, vlan string }{
		{"Ethernet0", "10"},
		{"Ethernet4", "20"},
		{"Ethernet8", "trunk"},
		{"Ethernet12", "routed"},
		{"Ethernet16", "20"},
		{"Ethernet20", Unassigned},
		{"PortChannel1", "20"},
	}
	got := table.Interfaces()
	if len(got) != len(want) {
		t.Fatalf("InterfaceTable() len = %d, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Label != w.label || got[i].Vlan.String() != w.vlan {
			t.Errorf("[%d] = %s:%s, want %s:%s", i, got[i].Label, got[i].Vlan, w.label, w.vlan)
		}
	}
}

func TestInterfaceTable_Empty(t *testing.T) {
	m := testutil.StartRedis(t)
	db := NewConfigDBClient(m.Addr())
	defer db.Close()

	snap, err := db.Snapshot(testutil.Context(t))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if n := snap.InterfaceTable().Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestSnapshot_RedisDown(t *testing.T) {
	m := testutil.StartRedis(t)
	addr := m.Addr()
	m.Close()

	db := NewConfigDBClient(addr)
	defer db.Close()
	if _, err := db.Snapshot(testutil.Context(t)); err == nil {
		t.Error("Snapshot() should fail when Redis is down")
	}
}
