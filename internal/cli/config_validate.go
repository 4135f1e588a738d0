package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/roster"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file and the project overlay for syntax and
semantic correctness.

This includes:
- YAML syntax
- The version compatibility constraint
- Field rules (positive extents, known output formats and log levels, TTL range)
- The roster source, if one is configured, exists and has a supported extension`,
		Example: `  # Validate current configuration
  rollcall config validate

  # Validate and show detailed information
  rollcall config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadWithProjectDir(cmd.Context(), path, config.GetResolvedProjectDir())
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	// The file must be valid on its own; env overrides are checked separately.
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	if err = validateRosterSource(cmd, cfg); err != nil {
		return err
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// validateRosterSource checks that a configured roster file has a supported
// extension. A missing file is a warning: it may be created later.
func validateRosterSource(cmd *cobra.Command, cfg *config.Config) error {
	source := cfg.Roster.Source
	if source == "" {
		return nil
	}
	if _, err := roster.FormatOf(source); err != nil {
		return fmt.Errorf("configuration validation failed: roster.source: %w", err)
	}
	if _, err := roster.Load(source); err != nil {
		cmd.PrintErrf("Warning: roster.source cannot be loaded: %v\n", err)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
	cmd.Printf("  Version: %s\n", cfg.Version)
	cmd.Printf("  Window: item extent %g, viewport %g, overscan %d\n",
		cfg.Window.ItemExtent, cfg.Window.ViewportExtent, cfg.Window.Overscan)
	cmd.Printf("  Output format: %s (color %s)\n", cfg.Output.DefaultFormat, cfg.Output.Color)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}

	printCacheDetails(cmd, cfg)
	printRosterDetails(cmd, cfg)
}

// printCacheDetails prints row cache settings.
func printCacheDetails(cmd *cobra.Command, cfg *config.Config) {
	if !cfg.Cache.Enabled {
		cmd.Println("  Row cache: disabled")
		return
	}
	opts := cfg.Cache.ToStoreOptions()
	cmd.Printf("  Row cache: %d entries, TTL %s\n", opts.MaxEntries, cache.FormatDuration(opts.TTL))
}

// printRosterDetails prints the roster source.
func printRosterDetails(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Roster.Source != "" {
		cmd.Printf("  Roster: %s\n", cfg.Roster.Source)
		return
	}
	cmd.Printf("  Roster: %d synthetic records\n", cfg.Roster.SyntheticCount)
}
