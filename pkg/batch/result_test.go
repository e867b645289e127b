package batch

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStateAndOutcomeStrings(t *testing.T) {
	if StateDispatchFailed.String() != "dispatch-failed" {
		t.Errorf("StateDispatchFailed = %q", StateDispatchFailed)
	}
	if State(99).String() != "unknown" {
		t.Errorf("State(99) = %q", State(99))
	}
	if WriteFailed.String() != "write-failed" {
		t.Errorf("WriteFailed = %q", WriteFailed)
	}
	if ModeCommit.String() != "commit" {
		t.Errorf("ModeCommit = %q", ModeCommit)
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := map[State]bool{
		StateQueryFailed: true, StateRenderFailed: true,
		StateSucceeded: true, StateDispatchFailed: true,
	}
	for s := StatePending; s <= StateDispatchFailed; s++ {
		if s.Terminal() != terminal[s] {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
	}
}

func TestDeviceResultJSON(t *testing.T) {
	r := DeviceResult{Device: "sw1", State: StateQueryFailed, Outcome: QueryFailed, Err: errors.New("x"), Error: "x"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"outcome":"query-failed"`, `"state":"query-failed"`, `"error":"x"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}
