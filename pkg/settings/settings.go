// Package settings manages persistent user settings for the vlanconf CLI.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds persistent user preferences
type Settings struct {
	// DevicesFile is the device list used when -d is not specified
	DevicesFile string `yaml:"devices_file,omitempty"`

	// Template is the configuration template used when -t is not specified
	Template string `yaml:"template,omitempty"`

	// OutputDir is where staged configurations are written
	OutputDir string `yaml:"output_dir,omitempty"`

	Driver    string        `yaml:"driver,omitempty"`
	Transport string        `yaml:"transport,omitempty"`
	Port      int           `yaml:"port,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Username  string        `yaml:"username,omitempty"`

	// KnownHosts enables SSH host key verification against this file
	KnownHosts string `yaml:"known_hosts,omitempty"`

	// SaveConfig controls whether commit also saves the running config. Unset
	// means save.
	SaveConfig *bool `yaml:"save,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vlanconf_settings.yaml"
	}
	return filepath.Join(home, ".vlanconf", "settings.yaml")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}

// SaveEnabled reports whether commit should save, defaulting to true.
func (s *Settings) SaveEnabled() bool {
	return s.SaveConfig == nil || *s.SaveConfig
}

type field struct {
	get func(s *Settings) string
	set func(s *Settings, v string) error
}

var fields = map[string]field{
	"devices_file": {
		get: func(s *Settings) string { return s.DevicesFile },
		set: func(s *Settings, v string) error { s.DevicesFile = v; return nil },
	},
	"template": {
		get: func(s *Settings) string { return s.Template },
		set: func(s *Settings, v string) error { s.Template = v; return nil },
	},
	"output_dir": {
		get: func(s *Settings) string { return s.OutputDir },
		set: func(s *Settings, v string) error { s.OutputDir = v; return nil },
	},
	"driver": {
		get: func(s *Settings) string { return s.Driver },
		set: func(s *Settings, v string) error { s.Driver = v; return nil },
	},
	"transport": {
		get: func(s *Settings) string { return s.Transport },
		set: func(s *Settings, v string) error {
			if v != "" && v != "ssh" && v != "telnet" {
				return fmt.Errorf("transport must be ssh or telnet, got %q", v)
			}
			s.Transport = v
			return nil
		},
	},
	"port": {
		get: func(s *Settings) string {
			if s.Port == 0 {
				return ""
			}
			return strconv.Itoa(s.Port)
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				s.Port = 0
				return nil
			}
			p, err := strconv.Atoi(v)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("port must be 1-65535, got %q", v)
			}
			s.Port = p
			return nil
		},
	},
	"timeout": {
		get: func(s *Settings) string {
			if s.Timeout == 0 {
				return ""
			}
			return s.Timeout.String()
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				s.Timeout = 0
				return nil
			}
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("timeout must be a positive duration such as 30s, got %q", v)
			}
			s.Timeout = d
			return nil
		},
	},
	"username": {
		get: func(s *Settings) string { return s.Username },
		set: func(s *Settings, v string) error { s.Username = v; return nil },
	},
	"known_hosts": {
		get: func(s *Settings) string { return s.KnownHosts },
		set: func(s *Settings, v string) error { s.KnownHosts = v; return nil },
	},
	"save": {
		get: func(s *Settings) string {
			if s.SaveConfig == nil {
				return ""
			}
			return strconv.FormatBool(*s.SaveConfig)
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				s.SaveConfig = nil
				return nil
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("save must be true or false, got %q", v)
			}
			s.SaveConfig = &b
			return nil
		},
	},
}

// Keys returns the settable keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as text; unset values are "".
func (s *Settings) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return f.get(s), nil
}

// Set parses and stores value under key. An empty value unsets it.
func (s *Settings) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %v)", key, Keys())
	}
	return f.set(s, value)
}
