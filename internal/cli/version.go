package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tacogips/tpick/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for tpick.

Examples:
  tpick version
  tpick version --short
  tpick version --json`,
	Args: cobra.NoArgs,
	// Version output never needs the configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runVersion,
}

// Version command flags
var (
	versionShort bool
	versionJSON  bool
)

func init() {
	// Flags for version
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
}

// VersionInfo contains version information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := VersionInfo{
		Version:   version.Version,
		GoVersion: runtime.Version(),
		Commit:    version.GitCommit,
		BuildDate: version.BuildDate,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if versionShort {
		fmt.Fprintln(out, info.Version)
		return nil
	}

	if versionJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "tpick version %s\n", info.Version)
	fmt.Fprintf(out, "Built with: %s\n", info.GoVersion)
	fmt.Fprintf(out, "Commit: %s\n", info.Commit)
	fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", info.OS, info.Arch)

	return nil
}
