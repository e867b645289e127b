package vlan

import (
	"regexp"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/util"
)

// HeaderToken is the first column of the `show interface status` header row.
const HeaderToken = "Port"

// vlanColumn is the header title of the VLAN column.
const vlanColumn = "Vlan"

// statusRowRegexp requires at least two spaces before the state token; the
// greedy prefix makes it pick the last such token on the row, which is the
// Vlan column when Duplex/Speed/Type columns follow it.
var statusRowRegexp = regexp.MustCompile(`^\S+\s+.*\s{2,}(trunk|routed|[0-9]{1,4})(?:\s|$)`)

var vlanTokenRegexp = regexp.MustCompile(`^(trunk|routed|[0-9]{1,4})$`)

// ParseInterfaceStatus normalizes `show interface status` output into an
// interface table. The header row is skipped; any other row without a
// recognizable VLAN column fails the whole parse.
//
// When the header carries a Vlan title, a row whose token starts exactly
// under it takes that token, so Speed values such as 1000 are never read
// as the VLAN. Rows that do not line up fall back to the row pattern.
func ParseInterfaceStatus(raw string) (*Table, error) {
	table := NewTable()
	col := -1

	for i, line := range util.SplitLines(raw) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		label := fields[0]
		if label == HeaderToken {
			col = headerColumn(line, vlanColumn)
			continue
		}

		if tok, ok := tokenAt(line, col); ok && vlanTokenRegexp.MatchString(tok) {
			table.Set(label, ParseValue(tok))
			continue
		}
		m := statusRowRegexp.FindStringSubmatch(line)
		if m == nil {
			return nil, util.NewMalformedRowError(i+1, line)
		}
		table.Set(label, ParseValue(m[1]))
	}

	return table, nil
}

// headerColumn returns the byte offset of title as a whole word in the
// header line, or -1.
func headerColumn(header, title string) int {
	for _, f := range strings.Fields(header) {
		if f == title {
			idx := strings.Index(header, " "+title)
			if idx < 0 {
				return -1
			}
			return idx + 1
		}
	}
	return -1
}

// tokenAt returns the whitespace-delimited token that starts at col. It
// fails when the row has nothing there or a token straddles the column.
func tokenAt(line string, col int) (string, bool) {
	if col <= 0 || col >= len(line) {
		return "", false
	}
	if !isBlank(line[col-1]) || isBlank(line[col]) {
		return "", false
	}
	rest := line[col:]
	if end := strings.IndexAny(rest, " \t"); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }
