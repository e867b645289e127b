package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/newtron-network/vlanconf/internal/testutil"
	"github.com/newtron-network/vlanconf/pkg/dispatch"
	"github.com/newtron-network/vlanconf/pkg/render"
	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

const exampleStatus = `Port      Name    Status       Vlan
Gi1/0/1           connected    92
Gi1/0/2           connected    trunk
Po1               connected    trunk
`

func simpleRender(string) render.Func {
	return func(label string, v vlan.Value) (string, error) {
		return fmt.Sprintf("interface %s\n description vlan %s", label, v), nil
	}
}

func mustTargets(t *testing.T, s string) vlan.TargetSet {
	t.Helper()
	ts, err := vlan.ParseTargets(s)
	if err != nil {
		t.Fatalf("ParseTargets(%q) error = %v", s, err)
	}
	return ts
}

func TestRun_EndToEndStage(t *testing.T) {
	dir := t.TempDir()
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{
		"sw1": {Status: exampleStatus},
	})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeStage, FilterByVlan: true, Targets: mustTargets(t, "92,10")},
		Render:  simpleRender,
		Sink:    &dispatch.FileSink{Dir: dir},
	}

	results := r.Run(context.Background(), []string{"sw1"})
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	res := results[0]
	if !res.OK() || res.State != StateSucceeded {
		t.Fatalf("result = %+v, want success", res)
	}
	if len(res.Eligible) != 1 || res.Eligible[0].Label != "Gi1/0/1" || res.Eligible[0].Vlan.String() != "92" {
		t.Errorf("Eligible = %+v, want [Gi1/0/1: 92]", res.Eligible)
	}
	if res.Interfaces != 3 {
		t.Errorf("Interfaces = %d, want 3", res.Interfaces)
	}

	want := "interface Gi1/0/1\n description vlan 92"
	data, err := os.ReadFile(filepath.Join(dir, "sw1.txt"))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != want {
		t.Errorf("artifact = %q, want %q", data, want)
	}
	if res.Artifact != filepath.Join(dir, "sw1.txt") {
		t.Errorf("Artifact = %q", res.Artifact)
	}

	sessions := drv.SessionsFor("sw1")
	if len(sessions) != 1 || !sessions[0].IsClosed() {
		t.Error("query session should be opened once and closed")
	}
}

func TestRun_NResultsKFailed(t *testing.T) {
	dir := t.TempDir()
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{
		"ok1":       {Status: exampleStatus},
		"badrows":   {Status: "Port  Name  Status  Vlan\nnonsense\n"},
		"ok2":       {Status: exampleStatus},
		"authfail":  {OpenErr: fmt.Errorf("sw: %w", util.ErrAuthenticationFailed)},
		"queryfail": {QueryErr: errors.New("timeout")},
	})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeStage, FilterByVlan: true, Targets: mustTargets(t, "92")},
		Render:  simpleRender,
		Sink:    &dispatch.FileSink{Dir: dir},
	}

	devices := []string{"ok1", "unreachable", "badrows", "", "ok2", "authfail", "queryfail"}
	results := r.Run(context.Background(), devices)

	if len(results) != len(devices) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(devices))
	}
	for i, res := range results {
		if res.Device != devices[i] {
			t.Errorf("results[%d].Device = %q, want %q", i, res.Device, devices[i])
		}
	}

	sum := Summarize(results)
	if sum.Succeeded != 2 || sum.FailedCount() != 5 || sum.Failed[QueryFailed] != 5 {
		t.Errorf("Summarize() = %+v", sum)
	}
	if !errors.Is(results[1].Err, util.ErrDeviceUnreachable) {
		t.Errorf("unreachable err = %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, util.ErrMalformedRow) {
		t.Errorf("badrows err = %v", results[2].Err)
	}
	if !errors.Is(results[5].Err, util.ErrAuthenticationFailed) {
		t.Errorf("authfail err = %v", results[5].Err)
	}

	for _, name := range []string{"ok1", "ok2"} {
		if _, err := os.Stat(filepath.Join(dir, name+".txt")); err != nil {
			t.Errorf("artifact for %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "badrows.txt")); !os.IsNotExist(err) {
		t.Error("no artifact expected for a device whose query failed")
	}
}

func TestRun_RenderFailed(t *testing.T) {
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: exampleStatus}})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeStage},
		Render: func(string) render.Func {
			return func(string, vlan.Value) (string, error) { return "", errors.New("bad template") }
		},
		Sink: &dispatch.FileSink{Dir: t.TempDir()},
	}

	res := r.Run(context.Background(), []string{"sw1"})[0]
	if res.Outcome != RenderFailed || res.State != StateRenderFailed {
		t.Errorf("result = %v/%v, want render-failed", res.Outcome, res.State)
	}
}

func TestRun_WriteFailed(t *testing.T) {
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: exampleStatus}})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeStage},
		Render:  simpleRender,
		Sink:    &dispatch.FileSink{Dir: filepath.Join(t.TempDir(), "missing")},
	}

	res := r.Run(context.Background(), []string{"sw1"})[0]
	if res.Outcome != WriteFailed || res.State != StateDispatchFailed {
		t.Errorf("result = %v/%v, want write-failed", res.Outcome, res.State)
	}
}

func TestRun_Commit(t *testing.T) {
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{
		"sw1": {Status: exampleStatus, SendOutput: "sw1(config-if)#"},
		"sw2": {Status: exampleStatus, SendErr: util.NewCommandError("interface Gi1/0/1", "% Invalid input")},
	})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeCommit, FilterByVlan: true, Targets: mustTargets(t, "92")},
		Render:  simpleRender,
		Sink:    &dispatch.CommitSink{Driver: drv, Save: true},
	}

	results := r.Run(context.Background(), []string{"sw1", "sw2"})
	if !results[0].OK() {
		t.Errorf("sw1 = %+v, want success", results[0])
	}
	if results[0].Output != "sw1(config-if)#" {
		t.Errorf("sw1 Output = %q", results[0].Output)
	}
	if results[1].Outcome != PushFailed || !errors.Is(results[1].Err, util.ErrCommandRejected) {
		t.Errorf("sw2 = %v: %v, want push-failed", results[1].Outcome, results[1].Err)
	}

	// one query session and one commit session per device
	sessions := drv.SessionsFor("sw1")
	if len(sessions) != 2 {
		t.Fatalf("sw1 sessions = %d, want 2", len(sessions))
	}
	for _, s := range sessions {
		if !s.IsClosed() {
			t.Error("session left open")
		}
	}
	want := [][]string{{"interface Gi1/0/1", " description vlan 92"}}
	if !reflect.DeepEqual(sessions[1].Sent, want) {
		t.Errorf("sent = %q, want %q", sessions[1].Sent, want)
	}
	if sessions[1].Saved != 1 {
		t.Errorf("Saved = %d, want 1", sessions[1].Saved)
	}
}

func TestRun_AnalyzeAndAnomalies(t *testing.T) {
	status := `Port      Name    Status       Vlan
Gi1/0/1           connected    10
Gi1/0/2           connected    trunk
Gi1/0/3           connected    routed
Po1               connected    20
`
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: status}})

	var states []State
	r := &Runner{
		Driver:       drv,
		Options:      Options{Mode: ModeAnalyze},
		OnTransition: func(_ string, s State) { states = append(states, s) },
	}

	res := r.Run(context.Background(), []string{"sw1"})[0]
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Anomalies) != 1 || res.Anomalies[0].Label != "Gi1/0/1" {
		t.Errorf("Anomalies = %+v, want [Gi1/0/1]", res.Anomalies)
	}
	if res.Eligible != nil || res.Config != "" {
		t.Error("analyze should not filter or render")
	}
	wantVLANs := map[string]string{"Gi1/0/1": "10", "Gi1/0/2": "trunk", "Gi1/0/3": "routed", "Po1": "20"}
	if !reflect.DeepEqual(res.VLANs, wantVLANs) {
		t.Errorf("VLANs = %v, want %v", res.VLANs, wantVLANs)
	}
	wantStates := []State{StateQuerying, StateFiltering, StateSucceeded}
	if !reflect.DeepEqual(states, wantStates) {
		t.Errorf("transitions = %v, want %v", states, wantStates)
	}
}

func TestRun_AllAccessWithoutFilter(t *testing.T) {
	status := `Port      Name    Status       Vlan
Gi1/0/1           connected    10
Gi1/0/2           connected    20
Gi1/0/3           connected    trunk
`
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: status}})
	r := &Runner{
		Driver:  drv,
		Options: Options{Mode: ModeStage, FilterByVlan: false, CheckAnomalies: true},
		Render:  simpleRender,
		Sink:    &dispatch.FileSink{Dir: t.TempDir()},
	}

	res := r.Run(context.Background(), []string{"sw1"})[0]
	if len(res.Eligible) != 2 {
		t.Errorf("Eligible = %+v, want 2 access ports", res.Eligible)
	}
	if len(res.Anomalies) != 2 {
		t.Errorf("Anomalies = %+v, want 2", res.Anomalies)
	}
}

func TestRun_Transitions(t *testing.T) {
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: exampleStatus}})
	var states []State
	r := &Runner{
		Driver:       drv,
		Options:      Options{Mode: ModeStage},
		Render:       simpleRender,
		Sink:         &dispatch.FileSink{Dir: t.TempDir()},
		OnTransition: func(_ string, s State) { states = append(states, s) },
	}
	r.Run(context.Background(), []string{"sw1", "missing"})

	want := []State{
		StateQuerying, StateFiltering, StateRendering, StateDispatching, StateSucceeded,
		StateQuerying, StateQueryFailed,
	}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("transitions = %v, want %v", states, want)
	}
	if r.RunID == "" {
		t.Error("RunID should be generated")
	}
}

func TestRun_Cancelled(t *testing.T) {
	drv := testutil.NewFakeDriver(map[string]*testutil.FakeDevice{"sw1": {Status: exampleStatus}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Driver: drv, Options: Options{Mode: ModeAnalyze}}
	results := r.Run(ctx, []string{"sw1", "sw2"})
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.Outcome != QueryFailed || !errors.Is(res.Err, context.Canceled) {
			t.Errorf("%s = %v: %v, want query-failed/cancelled", res.Device, res.Outcome, res.Err)
		}
	}
	if len(drv.Sessions()) != 0 {
		t.Error("no sessions expected after cancel")
	}
}
