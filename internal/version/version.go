// Package version holds build-time version information.
package version

// Set via ldflags during build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
