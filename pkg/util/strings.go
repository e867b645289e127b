package util

import "strings"

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty elements are kept so callers see exactly what the user typed.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		result = append(result, strings.TrimSpace(p))
	}
	return result
}

// SplitLines splits s on newlines, stripping a trailing carriage return
// from each line. A trailing newline does not produce an empty last line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// SanitizeFileName replaces path separators and other characters that are
// unsafe in a file name with hyphens.
func SanitizeFileName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '/' || c == '\\' || c == 0 || c < 0x20:
			result = append(result, '-')
		default:
			result = append(result, c)
		}
	}
	return string(result)
}
