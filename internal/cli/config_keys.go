package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/rollcall/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one configuration value",
		Long: `Prints the effective value of a dotted key, after the project overlay and
ROLLCALL_* environment overrides are applied.`,
		Example: `  rollcall config get window.overscan
  rollcall config get output.default_format`,
		Args:              exactArgs(1),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

// NewConfigSetCmd creates the config set command.
func NewConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Sets a dotted key in the config file and saves it. The file is the project
config when run inside a project (unless --global), otherwise the global
config. The result is validated before it is written.`,
		Example: `  rollcall config set window.overscan 5
  rollcall config set output.default_format json
  rollcall config set --global cache.ttl_seconds 600
  rollcall config set window.overscan -1   # rejected by validation`,
		Args:              exactArgs(2),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1], global)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write the global config even inside a project")
	// Flags must precede KEY so that negative values are not parsed as shorthands.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runConfigSet(cmd *cobra.Command, key, value string, global bool) error {
	path := targetConfigPath(cmd, global)

	// Load the single file being edited, without overlay or env overrides.
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err = cfg.Set(key, value); err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug().Ctx(cmd.Context()).Str("key", key).Str("path", path).Msg("config value set")
	cmd.Printf("Set %s = %s in %s\n", key, value, path)
	return nil
}

// targetConfigPath is the file config set edits.
func targetConfigPath(cmd *cobra.Command, global bool) string {
	if dir := config.GetResolvedProjectDir(); dir != "" && !global {
		return filepath.Join(dir, "config.yaml")
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every configuration value",
		Example: `  rollcall config list
  rollcall config list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigList(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, yaml")

	return cmd
}

func runConfigList(cmd *cobra.Command, output string) error {
	values := config.GetGlobalConfig().List()
	w := cmd.OutOrStdout()

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		return yaml.NewEncoder(w).Encode(values)
	case "table":
		lines := []string{"KEY\tVALUE\n"}
		for _, key := range config.Keys() {
			lines = append(lines, key+"\t"+values[key]+"\n")
		}
		return writeTable(w, lines)
	default:
		return &UsageError{Err: fmt.Errorf("unsupported output format %q (use table, json or yaml)", output)}
	}
}

// completeConfigKeys completes the KEY argument of get and set.
func completeConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}
