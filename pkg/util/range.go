package util

import (
	"fmt"
	"strconv"
	"strings"
)

// MinVLANID and MaxVLANID bound the usable 802.1Q VLAN range.
const (
	MinVLANID = 1
	MaxVLANID = 4094
)

// ValidateVLANID returns an error if id is outside 1-4094.
func ValidateVLANID(id int) error {
	if id < MinVLANID || id > MaxVLANID {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidVLAN, id, MinVLANID, MaxVLANID)
	}
	return nil
}

// ExpandVLANRange expands a single "start-end" VLAN range into its members.
// "100-103" -> [100, 101, 102, 103]
func ExpandVLANRange(expr string) ([]int, error) {
	parts := strings.SplitN(expr, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range format: %s", expr)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid start value in range %s: %v", expr, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end value in range %s: %v", expr, err)
	}
	if start > end {
		return nil, fmt.Errorf("start value %d greater than end value %d in range %s", start, end, expr)
	}
	if err := ValidateVLANID(start); err != nil {
		return nil, err
	}
	if err := ValidateVLANID(end); err != nil {
		return nil, err
	}

	result := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		result = append(result, i)
	}
	return result, nil
}
