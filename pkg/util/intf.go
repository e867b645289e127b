package util

import (
	"regexp"
	"strconv"
	"strings"
)

var parseInterfaceRegexp = regexp.MustCompile(`^([A-Za-z-]+)([0-9][0-9/]*)$`)

// ParseInterfaceName extracts interface type and number
// Returns (type, number, subinterface) e.g., ("Gi", "1/0/1", "100") for Gi1/0/1.100
func ParseInterfaceName(name string) (ifType string, num string, subintf string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		subintf = parts[1]
		name = parts[0]
	}

	matches := parseInterfaceRegexp.FindStringSubmatch(name)
	if len(matches) == 3 {
		return matches[1], matches[2], subintf
	}

	return name, "", subintf
}

// longToShort maps full interface type names to the abbreviations used in
// `show interface status` output.
var longToShort = map[string]string{
	"Ethernet":             "Eth",
	"FastEthernet":         "Fa",
	"GigabitEthernet":      "Gi",
	"TenGigabitEthernet":   "Te",
	"TwentyFiveGigE":       "Twe",
	"FortyGigabitEthernet": "Fo",
	"HundredGigE":          "Hu",
	"PortChannel":          "Po",
	"Port-channel":         "Po",
	"Loopback":             "Lo",
	"Vlan":                 "Vl",
}

// ShortenInterfaceName converts a full interface name to short form
// GigabitEthernet1/0/1 -> Gi1/0/1, PortChannel100 -> Po100
func ShortenInterfaceName(name string) string {
	ifType, num, subintf := ParseInterfaceName(name)
	short, ok := longToShort[ifType]
	if !ok || num == "" {
		return name
	}
	result := short + num
	if subintf != "" {
		result += "." + subintf
	}
	return result
}

// CompareInterfaceNames orders interface names by type, then numerically by
// each slash-separated component, so Ethernet4 sorts before Ethernet12 and
// Gi1/0/2 before Gi1/0/10. Returns -1, 0 or 1.
func CompareInterfaceNames(a, b string) int {
	ta, na, sa := ParseInterfaceName(a)
	tb, nb, sb := ParseInterfaceName(b)
	if ta != tb {
		return strings.Compare(ta, tb)
	}
	if c := compareNumberPath(na, nb); c != 0 {
		return c
	}
	if c := compareNumberPath(sa, sb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareNumberPath(a, b string) int {
	pa := strings.Split(a, "/")
	pb := strings.Split(b, "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, errX := strconv.Atoi(pa[i])
		y, errY := strconv.Atoi(pb[i])
		if errX != nil || errY != nil {
			if c := strings.Compare(pa[i], pb[i]); c != 0 {
				return c
			}
			continue
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}
