package vlan

import "strings"

// PortChannelPrefix marks aggregated interfaces, which never receive
// per-interface configuration.
const PortChannelPrefix = "Po"

// Policy decides which interfaces are eligible for generated configuration.
type Policy struct {
	// RequireMembership restricts eligibility to interfaces whose VLAN is
	// in Targets. With it off the policy is the anomaly check.
	RequireMembership bool
	Targets           TargetSet
}

// Allows reports whether the interface passes the policy: not trunk, not
// routed, not a port-channel and, when required, a member of a target VLAN.
func (p Policy) Allows(label string, v Value) bool {
	if v.Kind == Trunk || v.Kind == Routed {
		return false
	}
	if strings.HasPrefix(label, PortChannelPrefix) {
		return false
	}
	if p.RequireMembership && !p.Targets.Contains(v.Text) {
		return false
	}
	return true
}

// IsEligible reports whether an interface should receive configuration
// for the given targets.
func IsEligible(label string, v Value, targets TargetSet) bool {
	return Policy{RequireMembership: true, Targets: targets}.Allows(label, v)
}

// IsAnomalous reports whether an interface is a single-purpose access port
// that warrants policy review regardless of target VLANs.
func IsAnomalous(label string, v Value) bool {
	return Policy{}.Allows(label, v)
}

// Filter returns the interfaces allowed by p in table order.
func Filter(table *Table, p Policy) []Interface {
	var out []Interface
	for _, e := range table.Interfaces() {
		if p.Allows(e.Label, e.Vlan) {
			out = append(out, e)
		}
	}
	return out
}

// Anomalies returns the anomalous interfaces in table order.
func Anomalies(table *Table) []Interface {
	return Filter(table, Policy{})
}
