package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/pkg/version"
)

// versionInfo is the version command's JSON output.
type versionInfo struct {
	Version       string `json:"version"`
	GitCommit     string `json:"git_commit"`
	BuildDate     string `json:"build_date"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	ConfigVersion string `json:"config_version"`
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build and config schema versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:       version.GetVersion(),
				GitCommit:     version.GetGitCommit(),
				BuildDate:     version.GetBuildDate(),
				GoVersion:     runtime.Version(),
				Platform:      runtime.GOOS + "/" + runtime.GOARCH,
				ConfigVersion: config.CurrentVersion,
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"rollcall %s\n  commit:  %s\n  built:   %s\n  go:      %s %s\n  config:  %s (supports %s)\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform,
				info.ConfigVersion, config.SupportedVersions)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
