package device

import (
	"context"
	"strings"
	"testing"
	"time"
)

type stubDriver struct{ name string }

func (d stubDriver) Name() string { return d.name }
func (d stubDriver) Open(context.Context, string, Credentials) (Session, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	Register(stubDriver{name: "stub-b"})
	Register(stubDriver{name: "stub-a"})

	d, err := Lookup("stub-a")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if d.Name() != "stub-a" {
		t.Errorf("Lookup returned %q", d.Name())
	}

	_, err = Lookup("missing")
	if err == nil || !strings.Contains(err.Error(), "stub-a") {
		t.Errorf("Lookup(missing) error = %v, want list of drivers", err)
	}

	names := Drivers()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Drivers() not sorted: %v", names)
		}
	}
}

func TestCredentialsDefaults(t *testing.T) {
	var c Credentials
	if c.EffectiveTimeout() != DefaultTimeout {
		t.Errorf("EffectiveTimeout() = %v", c.EffectiveTimeout())
	}
	if c.EffectivePort() != 22 {
		t.Errorf("EffectivePort() = %d, want 22", c.EffectivePort())
	}

	c = Credentials{Transport: TransportTelnet, Timeout: 5 * time.Second}
	if c.EffectivePort() != 23 || c.EffectiveTimeout() != 5*time.Second {
		t.Errorf("telnet defaults wrong: port %d timeout %v", c.EffectivePort(), c.EffectiveTimeout())
	}

	c.Port = 2023
	if c.EffectivePort() != 2023 {
		t.Errorf("explicit port ignored: %d", c.EffectivePort())
	}
}
