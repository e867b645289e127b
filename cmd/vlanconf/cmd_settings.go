package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanconf/pkg/cli"
	"github.com/newtron-network/vlanconf/pkg/settings"
)

// settingsPath is the settings file used by the settings subcommands.
var settingsPath = settings.DefaultSettingsPath()

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.vlanconf/settings.yaml.

Settings provide defaults for flags. Environment variables VLANCONF_<KEY>
(e.g. VLANCONF_USERNAME, VLANCONF_DEVICES_FILE) override the file, and
flags override both. The password is never stored; use VLANCONF_PASSWORD
or the prompt.

Examples:
  vlanconf settings show
  vlanconf settings set driver sonic
  vlanconf settings set template templates/access.tmpl
  vlanconf settings set save false
  vlanconf settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.LoadFrom(settingsPath)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Settings file: %s\n\n", settingsPath)

		t := cli.NewTableTo(out, "SETTING", "VALUE")
		for _, key := range settings.Keys() {
			value, _ := s.Get(key)
			if value == "" {
				value = cli.Format(cli.StyleMuted, "(not set)")
			}
			t.Row(key, value)
		}
		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value. An empty value unsets it.

Available settings:
  devices_file  - Device list (-d default)
  template      - Configuration template (-t default)
  output_dir    - Staging directory (-o default)
  driver        - Device driver: ios, sonic
  transport     - ssh or telnet
  port          - Device port
  timeout       - Dial and command timeout, e.g. 45s
  username      - Login username
  known_hosts   - known_hosts file for SSH host key verification
  save          - Save after commit: true or false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.LoadFrom(settingsPath)
		if err != nil {
			s = &settings.Settings{}
		}

		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := s.SaveTo(settingsPath); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.SaveTo(settingsPath); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings cleared.")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
}
