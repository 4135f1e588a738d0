package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/logging"
)

// loadConfig resolves the project directory, loads the config file with its
// project overlay, applies environment and flag overrides, validates, and
// installs the result as the global config.
//
// Commands annotated as lenient (the config group) fall back to defaults when
// the file cannot be loaded or validated, so that it can still be repaired.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	projectDir := config.ResolveProjectDir(ctx, projectFlag, workingDir())
	config.SetResolvedProjectDir(projectDir)

	cfg, err := config.LoadWithProjectDir(ctx, path, projectDir)
	if err == nil {
		err = applyFlagOverrides(cmd, cfg)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if !isLenient(cmd) {
			return &UsageError{Err: err}
		}
		cfg = config.Default()
		cfg.SetConfigPath(path)
		cfg.ApplyEnvOverrides()
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// applyFlagOverrides layers env vars, then --log-level and --cache-ttl, over cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	cfg.ApplyEnvOverrides()

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}

	if ttl, _ := cmd.Flags().GetInt("cache-ttl"); ttl != 0 {
		if _, err := cache.NewTTLConfig(ttl); err != nil {
			return fmt.Errorf("--cache-ttl: %w", err)
		}
		cfg.Cache.TTLSeconds = ttl
	}
	return nil
}

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Str("project_dir", config.GetResolvedProjectDir()).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
