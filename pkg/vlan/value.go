// Package vlan normalizes per-interface VLAN state and decides which
// interfaces receive generated configuration.
package vlan

import (
	"strconv"
)

// Kind classifies the VLAN state of a switchport.
type Kind int

const (
	// Other is any state token that is neither numeric, trunk, nor routed
	// (e.g. "unassigned"). The literal token is preserved.
	Other Kind = iota
	Numeric
	Trunk
	Routed
)

// State tokens as they appear in device output.
const (
	TokenTrunk  = "trunk"
	TokenRouted = "routed"
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Trunk:
		return "trunk"
	case Routed:
		return "routed"
	default:
		return "other"
	}
}

// Value is the VLAN state of one interface. Text always holds the literal
// token produced by the device, so a Numeric "010" is kept as "010".
type Value struct {
	Kind Kind
	Text string
}

// ParseValue classifies a raw state token.
func ParseValue(token string) Value {
	switch {
	case token == TokenTrunk:
		return Value{Kind: Trunk, Text: token}
	case token == TokenRouted:
		return Value{Kind: Routed, Text: token}
	case isVLANNumber(token):
		return Value{Kind: Numeric, Text: token}
	default:
		return Value{Kind: Other, Text: token}
	}
}

// NumericValue returns the Numeric value for id in canonical decimal form.
func NumericValue(id int) Value {
	return Value{Kind: Numeric, Text: strconv.Itoa(id)}
}

// String returns the literal state token.
func (v Value) String() string {
	return v.Text
}

// IsTrunk reports whether the interface carries multiple VLANs.
func (v Value) IsTrunk() bool { return v.Kind == Trunk }

// IsRouted reports whether the interface is a layer-3 port.
func (v Value) IsRouted() bool { return v.Kind == Routed }

// isVLANNumber matches 1 to 4 ASCII digits, the same shape the status
// parser accepts for the Vlan column.
func isVLANNumber(s string) bool {
	if len(s) == 0 || len(s) > 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Interface pairs an interface label with its VLAN state.
type Interface struct {
	Label string `json:"interface"`
	Vlan  Value  `json:"vlan"`
}

// MarshalText lets Value serialize as its literal token.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Text), nil
}

// UnmarshalText parses a literal token.
func (v *Value) UnmarshalText(b []byte) error {
	*v = ParseValue(string(b))
	return nil
}
