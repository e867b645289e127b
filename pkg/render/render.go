// Package render turns eligible interfaces into configuration text.
package render

import (
	"fmt"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/vlan"
)

// Func renders the configuration fragment for one interface.
type Func func(label string, v vlan.Value) (string, error)

// Render applies fn to each interface in order and joins the fragments with
// newlines. An empty input renders to the empty string.
func Render(eligible []vlan.Interface, fn Func) (string, error) {
	if len(eligible) == 0 {
		return "", nil
	}

	fragments := make([]string, 0, len(eligible))
	for _, intf := range eligible {
		frag, err := fn(intf.Label, intf.Vlan)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", intf.Label, err)
		}
		fragments = append(fragments, frag)
	}
	return strings.Join(fragments, "\n"), nil
}
