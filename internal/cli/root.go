// Package cli implements the rollcall command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationLenientConfig marks commands that must run even when the config file is invalid.
const annotationLenientConfig = "rollcall.lenient-config"

// NewRootCmd creates the root Cobra command for the rollcall CLI.
// It wires up config loading, logging and tracing, and the window, browse,
// config and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "rollcall",
		Short: "Virtual-scrolling window engine and roster browser",
		Long: `rollcall computes which items of a long, uniform-height list must be
materialized for a scroll position, and uses that engine to browse large
rosters in the terminal without rendering every row.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $ROLLCALL_CONFIG or ~/.rollcall/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .rollcall/config.yaml (default: search upward)")
	cmd.PersistentFlags().
		Int("cache-ttl", 0, "row cache TTL in seconds (0 = use config default, overrides config file and env var)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.AddCommand(newWindowCmd(), NewBrowseCmd(), newConfigCmd(), NewVersionCmd())

	return cmd
}

const rootCmdExample = `  # Compute the window for 10,000 rows of 50px in a 500px viewport
  rollcall window compute --count 10000 --item-extent 50 --viewport 500 --offset 1000

  # Same window as JSON
  rollcall window compute --count 10000 --item-extent 50 --viewport 500 --offset 1000 --output json

  # Offset that brings row 250 to the top
  rollcall window scroll-to 250 --item-extent 50

  # Check the window invariants at every offset
  rollcall window sweep --count 100000 --item-extent 50 --viewport 500

  # Browse a roster export
  rollcall browse --roster students.csv

  # Browse a generated roster of 250,000 records
  rollcall browse --synthetic 250000

  # Initialize configuration
  rollcall config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration management commands",
		Annotations: map[string]string{annotationLenientConfig: "true"},
	}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// isLenient reports whether cmd or one of its parents tolerates an invalid config file.
func isLenient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationLenientConfig] == "true" {
			return true
		}
	}
	return false
}

// workingDir returns the current directory, or "." if it cannot be determined.
func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
