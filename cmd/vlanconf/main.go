// vlanconf - VLAN-driven interface configuration generator
//
// Queries each device in a list for its interface-to-VLAN mapping, selects
// access interfaces in the requested VLANs, renders a configuration template
// for each one and either stages the result to a file or pushes it to the
// device.
//
// Examples:
//
//	vlanconf generate -V 92,10 -t inputs/interface_template.tmpl        # stage to ./<device>.txt
//	vlanconf generate -V 92 -t access.tmpl -o staged/                   # stage to staged/
//	vlanconf generate -V 92 -t access.tmpl -x                           # push and save
//	vlanconf generate --all-access -t access.tmpl -x --no-save          # every access port, no save
//	vlanconf analyze -d inputs/core_switches                            # report anomalous ports
//	vlanconf generate -V 92 -t access.tmpl --driver sonic               # SONiC via CONFIG_DB
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanconf/pkg/cli"
	"github.com/newtron-network/vlanconf/pkg/settings"
	"github.com/newtron-network/vlanconf/pkg/util"
	"github.com/newtron-network/vlanconf/pkg/version"

	_ "github.com/newtron-network/vlanconf/pkg/device/ios"
	_ "github.com/newtron-network/vlanconf/pkg/device/sonic"
)

var (
	// Global option flags
	verbose bool
	logFile string
	logJSON bool

	// Global state
	userSettings *settings.Settings
	envSettings  *settings.Env
	logCloser    io.Closer
)

// errDevicesFailed is returned when a run completed but at least one device
// did not succeed. The per-device report has already been printed.
var errDevicesFailed = errors.New("one or more devices failed")

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		if !errors.Is(err, errDevicesFailed) {
			fmt.Fprintln(os.Stderr, cli.Format(cli.StyleError, "Error: "+err.Error()))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "vlanconf",
	Short:             "VLAN-driven interface configuration generator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `vlanconf generates per-interface configuration for every access port in
the requested VLANs across a list of devices.

Trunk, routed and port-channel interfaces are never configured. Generated
configuration is staged to <output-dir>/<device>.txt by default; use -x to
push it to the devices instead.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if logFile != "" {
			logCloser = util.SetLogFile(util.LogFileConfig{Path: logFile})
		}
		if logJSON {
			util.SetJSONFormat()
		}

		if isSettingsOrHelp(cmd) {
			return nil
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		envSettings, err = settings.LoadEnv()
		if err != nil {
			return fmt.Errorf("reading %s_* environment: %w", settings.EnvPrefix, err)
		}
		envSettings.Apply(userSettings)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr (size-rotated)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "run", Title: "Device Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)

	for _, cmd := range []*cobra.Command{generateCmd, analyzeCmd} {
		cmd.GroupID = "run"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), "vlanconf")
	},
}

func printVersion(w io.Writer, tool string) {
	if version.Version == "dev" {
		fmt.Fprintf(w, "%s dev build\n", tool)
	} else {
		fmt.Fprintln(w, version.Full(tool))
	}
}

// isSettingsOrHelp reports whether cmd runs without settings or devices.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "settings", "help", "version":
			return true
		}
	}
	return false
}
