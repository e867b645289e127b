package dispatch

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitCommands(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   []string
	}{
		{"empty", "", nil},
		{"blank lines dropped", "a\n\n  \nb", []string{"a", "b"}},
		{"CR stripped", "interface Gi1/0/1\r\n description x\r\n", []string{"interface Gi1/0/1", " description x"}},
		{"indentation kept", " shutdown", []string{" shutdown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitCommands(tt.config); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCommands() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("disk full")

	var we *WriteError
	if err := error(&WriteError{Path: "/x/sw1.txt", Err: cause}); !errors.As(err, &we) || !errors.Is(err, cause) {
		t.Errorf("WriteError should unwrap to cause")
	}

	var pe *PushError
	err := error(&PushError{Stage: StageSave, Err: cause})
	if !errors.As(err, &pe) || pe.Stage != StageSave || !errors.Is(err, cause) {
		t.Errorf("PushError should unwrap to cause")
	}
	if err.Error() != "push failed at save: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}
