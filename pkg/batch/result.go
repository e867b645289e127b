package batch

import (
	"time"

	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Mode selects what happens to a rendered configuration.
type Mode int

const (
	// ModeStage writes each configuration to a file.
	ModeStage Mode = iota
	// ModeCommit pushes each configuration to its device.
	ModeCommit
	// ModeAnalyze reports anomalous interfaces without rendering.
	ModeAnalyze
)

func (m Mode) String() string {
	switch m {
	case ModeStage:
		return "stage"
	case ModeCommit:
		return "commit"
	case ModeAnalyze:
		return "analyze"
	default:
		return "unknown"
	}
}

// State is a step in one device's processing.
type State int

const (
	StatePending State = iota
	StateQuerying
	StateQueryFailed
	StateFiltering
	StateRendering
	StateRenderFailed
	StateDispatching
	StateSucceeded
	StateDispatchFailed
)

var stateNames = [...]string{
	StatePending:        "pending",
	StateQuerying:       "querying",
	StateQueryFailed:    "query-failed",
	StateFiltering:      "filtering",
	StateRendering:      "rendering",
	StateRenderFailed:   "render-failed",
	StateDispatching:    "dispatching",
	StateSucceeded:      "succeeded",
	StateDispatchFailed: "dispatch-failed",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateQueryFailed, StateRenderFailed, StateSucceeded, StateDispatchFailed:
		return true
	}
	return false
}

// Outcome is the final classification of one device.
type Outcome int

const (
	Success Outcome = iota
	QueryFailed
	RenderFailed
	WriteFailed
	PushFailed
)

var outcomeNames = [...]string{
	Success:      "success",
	QueryFailed:  "query-failed",
	RenderFailed: "render-failed",
	WriteFailed:  "write-failed",
	PushFailed:   "push-failed",
}

func (o Outcome) String() string {
	if int(o) >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// MarshalText renders the outcome name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// MarshalText renders the state name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DeviceResult is what happened to one device in a run.
type DeviceResult struct {
	Device     string            `json:"device"`
	State      State             `json:"state"`
	Outcome    Outcome           `json:"outcome"`
	Err        error             `json:"-"`
	Error      string            `json:"error,omitempty"`
	Interfaces int               `json:"interfaces"`
	VLANs      map[string]string `json:"vlans,omitempty"`
	Eligible   []vlan.Interface  `json:"eligible,omitempty"`
	Anomalies  []vlan.Interface  `json:"anomalies,omitempty"`
	Config     string            `json:"-"`
	Artifact   string            `json:"artifact,omitempty"`
	Output     string            `json:"output,omitempty"`
	Duration   time.Duration     `json:"duration_ns"`
}

// OK reports whether the device succeeded.
func (r DeviceResult) OK() bool {
	return r.Outcome == Success && r.Err == nil
}

// Summary counts outcomes across a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    map[Outcome]int
	Anomalous int // devices with at least one anomaly
}

// Summarize counts results by outcome.
func Summarize(results []DeviceResult) Summary {
	s := Summary{Total: len(results), Failed: map[Outcome]int{}}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed[r.Outcome]++
		}
		if len(r.Anomalies) > 0 {
			s.Anomalous++
		}
	}
	return s
}

// FailedCount returns the number of devices that did not succeed.
func (s Summary) FailedCount() int {
	return s.Total - s.Succeeded
}
