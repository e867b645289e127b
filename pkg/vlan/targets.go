package vlan

import (
	"fmt"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/util"
)

// TargetSet is the ordered list of VLAN identifiers supplied for a run.
// Membership is exact string equality: "10" does not match "010".
type TargetSet struct {
	ids []string
	set map[string]struct{}
}

// NewTargetSet builds a target set from literal identifiers.
func NewTargetSet(ids ...string) TargetSet {
	ts := TargetSet{
		ids: make([]string, 0, len(ids)),
		set: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, dup := ts.set[id]; dup {
			continue
		}
		ts.set[id] = struct{}{}
		ts.ids = append(ts.ids, id)
	}
	return ts
}

// ParseTargets parses a comma-separated VLAN list. Each element is trimmed
// and kept literally; an element of the form "a-b" expands to the decimal
// form of every VLAN in the range. Zero-padded range bounds are rejected.
func ParseTargets(s string) (TargetSet, error) {
	if strings.TrimSpace(s) == "" {
		return TargetSet{}, util.ErrNoTargets
	}

	var ids []string
	for _, tok := range util.SplitCommaSeparated(s) {
		if isRangeToken(tok) {
			if hasZeroPaddedBound(tok) {
				return TargetSet{}, fmt.Errorf("target VLANs: %w: zero-padded range %q", util.ErrInvalidVLAN, tok)
			}
			members, err := util.ExpandVLANRange(tok)
			if err != nil {
				return TargetSet{}, fmt.Errorf("target VLANs: %w", err)
			}
			for _, m := range members {
				ids = append(ids, NumericValue(m).String())
			}
			continue
		}
		ids = append(ids, tok)
	}
	return NewTargetSet(ids...), nil
}

// isRangeToken reports whether tok looks like "<digits>-<digits>".
func isRangeToken(tok string) bool {
	i := strings.IndexByte(tok, '-')
	if i <= 0 || i == len(tok)-1 {
		return false
	}
	return isDigits(strings.TrimSpace(tok[:i])) && isDigits(strings.TrimSpace(tok[i+1:]))
}

// hasZeroPaddedBound reports whether either bound of a range token has a
// leading zero.
func hasZeroPaddedBound(tok string) bool {
	lo, hi, _ := strings.Cut(tok, "-")
	for _, b := range []string{strings.TrimSpace(lo), strings.TrimSpace(hi)} {
		if len(b) > 1 && b[0] == '0' {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Contains reports whether text is one of the targets.
func (ts TargetSet) Contains(text string) bool {
	_, ok := ts.set[text]
	return ok
}

// IDs returns the targets in the order given.
func (ts TargetSet) IDs() []string {
	out := make([]string, len(ts.ids))
	copy(out, ts.ids)
	return out
}

// Len returns the number of distinct targets.
func (ts TargetSet) Len() int { return len(ts.ids) }

// String returns the targets comma-joined.
func (ts TargetSet) String() string {
	return strings.Join(ts.ids, ",")
}
