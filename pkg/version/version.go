// Package version carries build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/vlanconf/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/vlanconf/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/vlanconf/pkg/version.BuildDate=2026-01-01T00:00:00Z" \
//	  ./cmd/vlanconf
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string for display.
func Info() string {
	return Version + " (" + GitCommit + ") built " + BuildDate
}

// Full returns Info plus the Go toolchain and platform.
func Full(program string) string {
	return fmt.Sprintf("%s %s %s %s/%s", program, Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
