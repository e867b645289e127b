// Package batch runs the query, filter, render and dispatch pipeline across
// a list of devices, one device at a time.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/dispatch"
	"github.com/newtron-network/vlanconf/pkg/render"
	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Options select the run variant.
type Options struct {
	Mode Mode

	// FilterByVlan restricts rendering to interfaces whose VLAN is in
	// Targets. When false every access interface is eligible.
	FilterByVlan bool
	Targets      vlan.TargetSet

	// CheckAnomalies records interfaces that are neither trunk, routed nor
	// port-channel. Always on in ModeAnalyze.
	CheckAnomalies bool
}

// Policy returns the eligibility policy implied by the options.
func (o Options) Policy() vlan.Policy {
	return vlan.Policy{RequireMembership: o.FilterByVlan, Targets: o.Targets}
}

// RenderFuncFactory binds a render function to a device.
type RenderFuncFactory func(device string) render.Func

// Runner processes devices sequentially.
type Runner struct {
	Driver      device.Driver
	Credentials device.Credentials
	Options     Options

	// Render produces the per-device render function. Unused in ModeAnalyze.
	Render RenderFuncFactory

	// Sink receives each rendered configuration. Unused in ModeAnalyze.
	Sink dispatch.Sink

	// OnTransition, when set, is called on every state change.
	OnTransition func(device string, s State)

	// RunID identifies the run in logs. Generated when empty.
	RunID string
}

// Run processes every device exactly once, in order, and returns one result
// per device. A failure on one device never stops the others. Run returns
// early only when ctx is cancelled; devices not reached are reported as
// QueryFailed with the context error.
func (r *Runner) Run(ctx context.Context, devices []string) []DeviceResult {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	log := util.WithRun(r.RunID)
	log.WithFields(logrus.Fields{
		"mode":    r.Options.Mode.String(),
		"devices": len(devices),
	}).Info("batch started")

	results := make([]DeviceResult, len(devices))
	for i, host := range devices {
		if err := ctx.Err(); err != nil {
			results[i] = DeviceResult{Device: host, State: StateQueryFailed, Outcome: QueryFailed, Err: err, Error: err.Error()}
			continue
		}
		results[i] = r.runDevice(ctx, host)
	}

	sum := Summarize(results)
	log.WithFields(logrus.Fields{
		"succeeded": sum.Succeeded,
		"failed":    sum.FailedCount(),
	}).Info("batch finished")
	return results
}

func (r *Runner) transition(res *DeviceResult, s State) {
	res.State = s
	util.WithRun(r.RunID).WithField("device", res.Device).Debugf("-> %s", s)
	if r.OnTransition != nil {
		r.OnTransition(res.Device, s)
	}
}

func (r *Runner) fail(res *DeviceResult, s State, o Outcome, err error) {
	res.Outcome = o
	res.Err = err
	res.Error = err.Error()
	r.transition(res, s)
	util.WithRun(r.RunID).WithField("device", res.Device).Warnf("%s: %v", o, err)
}

func (r *Runner) runDevice(ctx context.Context, host string) DeviceResult {
	start := time.Now()
	res := DeviceResult{Device: host, State: StatePending}

	r.transition(&res, StateQuerying)
	table, err := r.query(ctx, host)
	if err != nil {
		r.fail(&res, StateQueryFailed, QueryFailed, err)
		res.Duration = time.Since(start)
		return res
	}
	res.Interfaces = table.Len()

	r.transition(&res, StateFiltering)
	if r.Options.CheckAnomalies || r.Options.Mode == ModeAnalyze {
		res.Anomalies = vlan.Anomalies(table)
		for _, a := range res.Anomalies {
			util.WithDevice(host).Infof("anomaly: %s in VLAN %s", a.Label, a.Vlan)
		}
	}
	if r.Options.Mode == ModeAnalyze {
		res.VLANs = table.Map()
		r.transition(&res, StateSucceeded)
		res.Duration = time.Since(start)
		return res
	}
	res.Eligible = vlan.Filter(table, r.Options.Policy())

	r.transition(&res, StateRendering)
	config, err := render.Render(res.Eligible, r.Render(host))
	if err != nil {
		r.fail(&res, StateRenderFailed, RenderFailed, err)
		res.Duration = time.Since(start)
		return res
	}
	res.Config = config

	r.transition(&res, StateDispatching)
	err = r.Sink.Dispatch(ctx, host, config)
	if rep, ok := r.Sink.(dispatch.OutputReporter); ok {
		res.Output = rep.Output(host)
	}
	if err != nil {
		var we *dispatch.WriteError
		outcome := PushFailed
		if errors.As(err, &we) {
			outcome = WriteFailed
		}
		r.fail(&res, StateDispatchFailed, outcome, err)
		res.Duration = time.Since(start)
		return res
	}
	if fs, ok := r.Sink.(*dispatch.FileSink); ok {
		res.Artifact = fs.Path(host)
	}

	r.transition(&res, StateSucceeded)
	res.Duration = time.Since(start)
	return res
}

// query opens a session, reads the interface table and closes the session
// before returning.
func (r *Runner) query(ctx context.Context, host string) (*vlan.Table, error) {
	sess, err := r.Driver.Open(ctx, host, r.Credentials)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			util.WithDevice(host).Warnf("closing session: %v", err)
		}
	}()
	return sess.InterfaceVlans(ctx)
}
