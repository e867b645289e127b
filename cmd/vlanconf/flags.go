package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanconf/pkg/device"
	"github.com/newtron-network/vlanconf/pkg/inventory"
	"github.com/newtron-network/vlanconf/pkg/settings"
	"github.com/newtron-network/vlanconf/pkg/util"
)

const (
	defaultDriver    = "ios"
	defaultTransport = string(device.TransportSSH)
	defaultTemplate  = "inputs/interface_template.tmpl"
	defaultOutputDir = "."
)

// runFlags holds the flags shared by generate and analyze.
type runFlags struct {
	vlans        string
	username     string
	password     string
	devicesFile  string
	templatePath string
	outputDir    string
	driver       string
	transport    string
	port         int
	timeout      time.Duration
	knownHosts   string

	commit         bool
	noSave         bool
	allAccess      bool
	checkAnomalies bool
	showOutput     bool
	jsonOutput     bool
}

func addConnectionFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "Username for all devices (prompted if not set)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Password for all devices (prompted if not set)")
	cmd.Flags().StringVarP(&f.devicesFile, "devices", "d", inventory.DefaultPath, "Target device list (one per line)")
	cmd.Flags().StringVar(&f.driver, "driver", defaultDriver, "Device driver (ios, sonic)")
	cmd.Flags().StringVar(&f.transport, "transport", defaultTransport, "CLI transport for the ios driver (ssh, telnet)")
	cmd.Flags().IntVar(&f.port, "port", 0, "Device port (default 22 for ssh, 23 for telnet)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", device.DefaultTimeout, "Dial and per-command timeout")
	cmd.Flags().StringVar(&f.knownHosts, "known-hosts", "", "known_hosts file for SSH host key verification")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print results as JSON")
}

func addGenerateFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.vlans, "vlans", "V", "", "Comma-separated VLANs to configure, ranges allowed (prompted if not set)")
	cmd.Flags().StringVarP(&f.templatePath, "template", "t", defaultTemplate, "Per-interface configuration template")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", defaultOutputDir, "Directory for staged configurations")
	cmd.Flags().BoolVarP(&f.commit, "commit", "x", false, "Push configuration to devices instead of staging")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "With -x, do not save the running configuration")
	cmd.Flags().BoolVar(&f.allAccess, "all-access", false, "Configure every access interface regardless of VLAN")
	cmd.Flags().BoolVar(&f.checkAnomalies, "check-anomalies", false, "Also report anomalous interfaces")
	cmd.Flags().BoolVar(&f.showOutput, "show-output", false, "With -x, print the device's response")
	cmd.MarkFlagsMutuallyExclusive("vlans", "all-access")
}

// resolve fills every flag the user did not set from settings, which
// already carry environment overrides. Precedence: flag, env, file, default.
func (f *runFlags) resolve(cmd *cobra.Command, s *settings.Settings) error {
	if s == nil {
		s = &settings.Settings{}
	}
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	pick := func(name string, dst *string, v string) {
		if !changed(name) && v != "" {
			*dst = v
		}
	}
	pick("username", &f.username, s.Username)
	pick("devices", &f.devicesFile, s.DevicesFile)
	pick("template", &f.templatePath, s.Template)
	pick("output-dir", &f.outputDir, s.OutputDir)
	pick("driver", &f.driver, s.Driver)
	pick("transport", &f.transport, s.Transport)
	pick("known-hosts", &f.knownHosts, s.KnownHosts)

	if !changed("port") && s.Port != 0 {
		f.port = s.Port
	}
	if !changed("timeout") && s.Timeout != 0 {
		f.timeout = s.Timeout
	}
	if !changed("no-save") && !s.SaveEnabled() {
		f.noSave = true
	}

	tr := device.Transport(f.transport)
	v := &util.ValidationBuilder{}
	v.Add(tr == device.TransportSSH || tr == device.TransportTelnet,
		fmt.Sprintf("--transport must be ssh or telnet, got %q", f.transport))
	v.Add(f.timeout > 0, fmt.Sprintf("--timeout must be positive, got %s", f.timeout))
	v.Add(f.port >= 0 && f.port <= 65535, fmt.Sprintf("--port out of range: %d", f.port))
	return v.Build()
}

// credentials completes username and password from the environment or
// prompts. They are read once and shared by every device.
func (f *runFlags) credentials(p *prompter, env *settings.Env) (device.Credentials, error) {
	if f.password == "" && env != nil {
		f.password = env.Password
	}

	var err error
	if f.username == "" {
		if f.username, err = p.line("Enter username for devices: ", "username"); err != nil {
			return device.Credentials{}, err
		}
	}
	if f.password == "" {
		if f.password, err = p.secret("Enter password for devices: ", "password"); err != nil {
			return device.Credentials{}, err
		}
	}

	return device.Credentials{
		Username:   f.username,
		Password:   f.password,
		Transport:  device.Transport(f.transport),
		Port:       f.port,
		Timeout:    f.timeout,
		KnownHosts: f.knownHosts,
	}, nil
}
