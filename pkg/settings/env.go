package settings

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. VLANCONF_USERNAME.
const EnvPrefix = "VLANCONF"

// Env holds overrides read from the environment. Password is only ever
// taken from the environment or a prompt, never from the settings file.
type Env struct {
	DevicesFile string `split_words:"true"`
	Template    string
	OutputDir   string `split_words:"true"`
	Driver      string
	Transport   string
	Port        int
	Timeout     time.Duration
	Username    string
	Password    string
	KnownHosts  string `split_words:"true"`
	Save        *bool
}

// LoadEnv reads VLANCONF_* variables.
func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Apply overlays every variable that is set onto s.
func (e *Env) Apply(s *Settings) {
	if e.DevicesFile != "" {
		s.DevicesFile = e.DevicesFile
	}
	if e.Template != "" {
		s.Template = e.Template
	}
	if e.OutputDir != "" {
		s.OutputDir = e.OutputDir
	}
	if e.Driver != "" {
		s.Driver = e.Driver
	}
	if e.Transport != "" {
		s.Transport = e.Transport
	}
	if e.Port != 0 {
		s.Port = e.Port
	}
	if e.Timeout != 0 {
		s.Timeout = e.Timeout
	}
	if e.Username != "" {
		s.Username = e.Username
	}
	if e.KnownHosts != "" {
		s.KnownHosts = e.KnownHosts
	}
	if e.Save != nil {
		s.SaveConfig = e.Save
	}
}
