package main

import (
	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanconf/pkg/batch"
	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/inventory"
)

var analyzeFlags runFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report access interfaces on each device",
	Long: `Query every device and report each interface that is neither a trunk, a
routed port nor a port-channel. Nothing is rendered or changed.

Examples:
  vlanconf analyze
  vlanconf analyze -d inputs/core_switches --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, &analyzeFlags, newPrompter())
	},
}

func init() {
	addConnectionFlags(analyzeCmd, &analyzeFlags)
}

func runAnalyze(cmd *cobra.Command, f *runFlags, p *prompter) error {
	if err := f.resolve(cmd, userSettings); err != nil {
		return err
	}

	devices, err := inventory.ReadDevices(f.devicesFile)
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

	opts := batch.Options{Mode: batch.ModeAnalyze, CheckAnomalies: true}
	rep := &reporter{out: cmd.OutOrStdout(), mode: opts.Mode, json: f.jsonOutput}
	runner := &batch.Runner{
		Driver:       drv,
		Credentials:  creds,
		Options:      opts,
		OnTransition: rep.transition,
	}
	return execute(runner, rep, devices)
}
