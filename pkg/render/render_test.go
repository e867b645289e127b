package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/newtron-network/vlanconf/pkg/vlan"
)

func simpleFunc(label string, v vlan.Value) (string, error) {
	return fmt.Sprintf("interface %s\n switchport access vlan %s", label, v), nil
}

func TestRender_Empty(t *testing.T) {
	called := false
	got, err := Render(nil, func(string, vlan.Value) (string, error) {
		called = true
		return "x", nil
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
	if called {
		t.Error("template must not be invoked for empty input")
	}
}

func TestRender_JoinsInOrder(t *testing.T) {
	eligible := []vlan.Interface{
		{Label: "Gi1/0/9", Vlan: vlan.ParseValue("92")},
		{Label: "Gi1/0/1", Vlan: vlan.ParseValue("10")},
	}

	got, err := Render(eligible, simpleFunc)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "interface Gi1/0/9\n switchport access vlan 92\ninterface Gi1/0/1\n switchport access vlan 10"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	again, _ := Render(eligible, simpleFunc)
	if again != got {
		t.Error("re-rendering identical input must yield identical output")
	}
}

func TestRender_EachInterfaceOnce(t *testing.T) {
	eligible := []vlan.Interface{
		{Label: "a", Vlan: vlan.ParseValue("1")},
		{Label: "b", Vlan: vlan.ParseValue("2")},
		{Label: "c", Vlan: vlan.ParseValue("3")},
	}
	seen := map[string]int{}
	_, err := Render(eligible, func(label string, v vlan.Value) (string, error) {
		seen[label]++
		return label, nil
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("rendered %v, want a, b, c", seen)
	}
	for label, n := range seen {
		if n != 1 {
			t.Errorf("%s rendered %d times", label, n)
		}
	}
}

func TestRender_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := Render([]vlan.Interface{{Label: "Gi1/0/1", Vlan: vlan.ParseValue("1")}},
		func(string, vlan.Value) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Errorf("Render error = %v, want wrapped boom", err)
	}
}
