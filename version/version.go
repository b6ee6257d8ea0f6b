// Package version exposes build information set via -ldflags.
//
//	go build -ldflags "-X github.com/jackzampolin/mapscrape/version.GitRelease=v0.1.0"
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	// GitRelease is the release tag the binary was built from.
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
	// GitCommitDate is the commit date the binary was built from.
	GitCommitDate = "unknown"
	// GoInfo is the Go toolchain version and platform.
	GoInfo = runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "unknown" {
				GitCommit = s.Value
			}
		case "vcs.time":
			if GitCommitDate == "unknown" {
				GitCommitDate = s.Value
			}
		}
	}
}
