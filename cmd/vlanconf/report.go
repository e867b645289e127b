package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/newtron-network/vlanconf/pkg/batch"
	"github.com/newtron-network/vlanconf/pkg/cli"
)

// detailWidth caps the DETAIL column; the full error is in the logs and --json.
const detailWidth = 72

// progressWidth is the dot-padded width of device names on progress lines.
const progressWidth = 28

// reporter prints progress while a batch runs and the per-device results
// afterwards.
type reporter struct {
	out  io.Writer
	mode batch.Mode
	json bool
}

func displayName(device string) string {
	if device == "" {
		return "(blank line)"
	}
	return device
}

func outcomeStyle(o batch.Outcome) cli.Style {
	if o == batch.Success {
		return cli.StyleSuccess
	}
	return cli.StyleError
}

// transition prints one progress line per step.
func (r *reporter) transition(device string, s batch.State) {
	if r.json {
		return
	}
	var msg string
	switch s {
	case batch.StateQuerying:
		msg = "Getting interface VLANs..."
	case batch.StateFiltering:
		if r.mode == batch.ModeAnalyze {
			msg = "Analyzing switch for anomalies..."
		}
	case batch.StateRendering:
		msg = "Generating configuration..."
	case batch.StateDispatching:
		if r.mode == batch.ModeCommit {
			msg = "Pushing configuration to device..."
		} else {
			msg = "Writing configuration to file..."
		}
	}
	if msg != "" {
		fmt.Fprintf(r.out, "%s %s\n", cli.Format(cli.StyleHeader, cli.DotPad(displayName(device), progressWidth)), msg)
	}
}

// output prints a device's response to committed configuration.
func (r *reporter) output(device, out string) {
	if r.json {
		return
	}
	fmt.Fprintf(r.out, "%s: device output:\n%s\n", cli.Format(cli.StyleHeader, displayName(device)), cli.Format(cli.StyleMuted, out))
}

// detail is the short explanation shown next to an outcome.
func (r *reporter) detail(res batch.DeviceResult) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	if r.mode != batch.ModeAnalyze && len(res.Eligible) == 0 {
		if res.Artifact != "" {
			return res.Artifact + " (no matching interfaces)"
		}
		return "no matching interfaces"
	}
	return res.Artifact
}

type jsonReport struct {
	RunID     string               `json:"run_id"`
	Mode      string               `json:"mode"`
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []batch.DeviceResult `json:"results"`
}

// results prints the anomaly details and the result table, or the whole
// run as JSON.
func (r *reporter) results(runID string, results []batch.DeviceResult) error {
	sum := batch.Summarize(results)

	if r.json {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{
			RunID:     runID,
			Mode:      r.mode.String(),
			Total:     sum.Total,
			Succeeded: sum.Succeeded,
			Failed:    sum.FailedCount(),
			Results:   results,
		})
	}

	for _, res := range results {
		name := cli.Format(cli.StyleHeader, displayName(res.Device))
		for _, a := range res.Anomalies {
			fmt.Fprintln(r.out, cli.Format(cli.StyleWarning,
				fmt.Sprintf("%s: %s appears to be anomalous (VLAN %s)", name, a.Label, a.Vlan)))
		}
		if res.Outcome == batch.QueryFailed {
			fmt.Fprintln(r.out, cli.Format(cli.StyleError,
				fmt.Sprintf("%s: Problem getting VLANs from interfaces on %s!", name, displayName(res.Device))))
		}
	}
	fmt.Fprintln(r.out)

	t := cli.NewTableTo(r.out, "DEVICE", "OUTCOME", "INTERFACES", "ELIGIBLE", "ANOMALIES", "DETAIL").
		Truncate(5, detailWidth)
	for _, res := range results {
		t.Row(
			displayName(res.Device),
			cli.Format(outcomeStyle(res.Outcome), res.Outcome.String()),
			strconv.Itoa(res.Interfaces),
			strconv.Itoa(len(res.Eligible)),
			strconv.Itoa(len(res.Anomalies)),
			r.detail(res),
		)
	}
	t.Flush()

	fmt.Fprintln(r.out)
	line := fmt.Sprintf("%d of %d devices succeeded", sum.Succeeded, sum.Total)
	if sum.FailedCount() > 0 {
		fmt.Fprintln(r.out, cli.Format(cli.StyleError, line))
	} else {
		fmt.Fprintln(r.out, cli.Format(cli.StyleSuccess, line))
	}
	return nil
}
