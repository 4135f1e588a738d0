package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/tui"
)

// errConfigExists is returned when init would overwrite a config without --force.
var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// isInteractive reports whether config init may prompt. Tests replace it.
//
//nolint:gochecknoglobals // Test seam for terminal detection.
var isInteractive = tui.IsTTY

// NewConfigInitCmd creates the config init command for initializing configuration.
// When run inside a project (a directory with .rollcall/, or --project-dir) and
// without --global, it writes .rollcall/config.yaml and a .gitignore there.
// Otherwise it writes the global ~/.rollcall/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates project-local configuration at
$PROJECT/.rollcall/config.yaml with a .gitignore for logs and exports.
Use --global to initialize the global configuration even inside a project.

When the file exists and stdin is a terminal, you are asked before it is
replaced; otherwise --force is required.`,
		Example: `  # Create project-local configuration
  rollcall config init --project-dir .

  # Create global configuration
  rollcall config init --global

  # Create configuration, overwriting existing
  rollcall config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")

	return cmd
}

// checkOverwrite returns nil when path may be written.
func checkOverwrite(cmd *cobra.Command, path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	answer := ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), path, isInteractive())
	if answer.Accepted {
		return nil
	}
	return errConfigExists
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if err := checkOverwrite(cmd, configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Never overwrites an existing .gitignore.
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore for logs and exports\n")
	}

	return nil
}

// initGlobalConfig creates global config at the --config path or ~/.rollcall/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.SetConfigPath(path)
	}

	if err := checkOverwrite(cmd, cfg.ConfigPath(), force); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
