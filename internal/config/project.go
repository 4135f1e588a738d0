package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/rollcall/internal/logging"
)

// EnvProjectDir overrides project directory discovery.
const EnvProjectDir = "ROLLCALL_PROJECT_DIR"

// ErrNoProject is returned when no .rollcall directory is found walking up.
var ErrNoProject = errors.New("no .rollcall project directory found")

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .rollcall directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. ROLLCALL_PROJECT_DIR env var
//  3. the nearest ancestor of startDir holding .rollcall/config.yaml
//
// Returns the path to $PROJECT/.rollcall/ or empty string if no project found.
// Does NOT create the directory. Returned path is always absolute (or empty).
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsRollcallDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsRollcallDir(ctx, envDir)
	}

	projectRoot, err := FindProject(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}

	return toAbsRollcallDir(ctx, projectRoot)
}

// FindProject walks up from startDir to the first directory containing
// .rollcall/config.yaml. The user's global config directory never counts.
func FindProject(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	globalDir, _ := GetConfigDir()
	for {
		candidate := filepath.Join(dir, configDirName)
		if candidate != globalDir {
			_, statErr := os.Stat(filepath.Join(candidate, configFileName))
			if statErr == nil {
				return dir, nil
			}
			if !errors.Is(statErr, os.ErrNotExist) {
				return "", statErr
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// LoadWithProjectDir loads the config file at path and shallow-merges the
// project overlay in projectDir on top. Overlay problems are logged and the
// overlay is skipped. An empty projectDir skips the overlay.
func LoadWithProjectDir(ctx context.Context, path, projectDir string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if projectDir == "" {
		return cfg, nil
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, statErr := os.Stat(overlayPath); statErr != nil {
		return cfg, nil
	}

	merged := *cfg
	if mergeErr := ShallowMergeYAML(&merged, overlayPath); mergeErr != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(mergeErr).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global config")
		return cfg, nil
	}

	return &merged, nil
}

// toAbsRollcallDir converts dir to an absolute path and appends ".rollcall"
// unless it already ends with it.
func toAbsRollcallDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == configDirName {
		return abs
	}

	return filepath.Join(abs, configDirName)
}
