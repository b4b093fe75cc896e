package main

import (
	"github.com/tacogips/tpick/internal/cli"
	"github.com/tacogips/tpick/internal/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion   = "dev"
	buildGitCommit = "unknown"
	buildDate      = "unknown"
)

func main() {
	version.Version = buildVersion
	version.GitCommit = buildGitCommit
	version.BuildDate = buildDate

	cli.Execute()
}
