// Package version records the build identity of the beamer binaries. The
// variables are meant to be stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/panpilkarz/beamer/pkg/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the beamer state tooling.
	Version = "v0.1.0"

	// GitCommit is the git revision the binary was built from.
	GitCommit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the one-line form used by --version.
func Short() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

// Info returns the full multi-line build description.
func Info() string {
	return fmt.Sprintf("Version:    %s\nGit Commit: %s\nBuild Time: %s\nGo Version: %s\nOS/Arch:    %s/%s",
		Version,
		GitCommit,
		BuildTime,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
