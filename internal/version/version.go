package version

import (
	"fmt"
	"runtime"
)

// Set via ldflags at build time, e.g.
// -X github.com/kriansa/mountscope/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for --version.
func String() string {
	return fmt.Sprintf("mountscope %s (commit: %s, built: %s, go: %s, %s/%s)",
		Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
