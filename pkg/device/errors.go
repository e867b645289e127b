package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/newtron-network/vlanconf/pkg/util"
)

// ClassifyDialError wraps a connection failure so callers can tell an
// authentication problem from an unreachable device with errors.Is.
func ClassifyDialError(host string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, util.ErrAuthenticationFailed) || errors.Is(err, util.ErrDeviceUnreachable) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%s: %w: %v", host, util.ErrAuthenticationFailed, err)
	}
	return fmt.Errorf("%s: %w: %v", host, util.ErrDeviceUnreachable, err)
}
