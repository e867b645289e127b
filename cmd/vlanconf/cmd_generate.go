package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanconf/pkg/batch"
	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/dispatch"
	"github.com/newtron-network/vlanconf/pkg/inventory"
	"github.com/newtron-network/vlanconf/pkg/render"
	"github.com/newtron-network/vlanconf/pkg/vlan"
)

var generateFlags runFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interface configuration for access ports in the given VLANs",
	Long: `Generate per-interface configuration for every access port whose VLAN is
in the requested list, on every device in the device list.

Trunk, routed and port-channel (Po*) interfaces are always skipped. VLANs
match by exact text: "010" does not match VLAN 10.

By default the configuration is staged to <output-dir>/<device>.txt. With
-x it is pushed to the device and saved (unless --no-save).

Examples:
  vlanconf generate -V 92,10
  vlanconf generate -V 100-110 -t templates/voice.tmpl -o staged/
  vlanconf generate -V 92 -x --show-output
  vlanconf generate --all-access --check-anomalies`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, &generateFlags, newPrompter())
	},
}

func init() {
	addGenerateFlags(generateCmd, &generateFlags)
	addConnectionFlags(generateCmd, &generateFlags)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(cmd *cobra.Command, f *runFlags, p *prompter) error {
	if err := f.resolve(cmd, userSettings); err != nil {
		return err
	}

	opts := batch.Options{Mode: batch.ModeStage, FilterByVlan: !f.allAccess, CheckAnomalies: f.checkAnomalies}
	if f.commit {
		opts.Mode = batch.ModeCommit
	}
	if opts.FilterByVlan {
		if f.vlans == "" {
			v, err := p.line("Enter VLANs to configure (comma separated): ", "VLAN list (-V)")
			if err != nil {
				return err
			}
			f.vlans = v
		}
		targets, err := vlan.ParseTargets(f.vlans)
		if err != nil {
			return err
		}
		opts.Targets = targets
	}

	devices, err := inventory.ReadDevices(f.devicesFile)
	if err != nil {
		return err
	}

	tmpl, err := render.LoadTemplate(f.templatePath)
	if err != nil {
		return err
	}

	drv, err := device.Lookup(f.driver)
	if err != nil {
		return err
	}

	creds, err := f.credentials(p, envSettings)
	if err != nil {
		return err
	}

	rep := &reporter{out: cmd.OutOrStdout(), mode: opts.Mode, json: f.jsonOutput}

	var sink dispatch.Sink
	if opts.Mode == batch.ModeCommit {
		cs := &dispatch.CommitSink{Driver: drv, Credentials: creds, Save: !f.noSave}
		if f.showOutput {
			cs.OnOutput = rep.output
		}
		sink = cs
	} else {
		if err := os.MkdirAll(f.outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		sink = &dispatch.FileSink{Dir: f.outputDir}
	}

	runner := &batch.Runner{
		Driver:       drv,
		Credentials:  creds,
		Options:      opts,
		Render:       tmpl.Func,
		Sink:         sink,
		OnTransition: rep.transition,
	}
	return execute(runner, rep, devices)
}

// execute runs the batch and reports. It returns errDevicesFailed when any
// device did not succeed.
func execute(runner *batch.Runner, rep *reporter, devices []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results := runner.Run(ctx, devices)
	if err := rep.results(runner.RunID, results); err != nil {
		return err
	}
	if batch.Summarize(results).FailedCount() > 0 {
		return errDevicesFailed
	}
	return nil
}
