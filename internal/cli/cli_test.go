package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/logging"
	"github.com/rshade/rollcall/internal/window"
)

// isolate points config discovery at temp directories and resets global state.
// It returns the config home.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(logging.EnvLogLevel, "error")
	t.Setenv(logging.EnvLogFormat, "")
	t.Setenv(cache.EnvTTLSeconds, "")
	t.Setenv(cache.EnvCacheEnabled, "")
	t.Setenv(cache.EnvMaxEntries, "")
	t.Chdir(t.TempDir())

	reset := func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	}
	reset()
	t.Cleanup(reset)

	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRootCmd(t *testing.T) {
	isolate(t)

	root := NewRootCmd("v1.2.3")
	assert.Equal(t, "rollcall", root.Use)
	assert.Equal(t, "v1.2.3", root.Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"window", "browse", "config", "version"})

	for _, flag := range []string{"debug", "config", "log-level", "project-dir", "cache-ttl"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "generic", err: errors.New("boom"), want: ExitFailure},
		{name: "usage", err: &UsageError{Err: errors.New("bad flag")}, want: ExitUsage},
		{name: "wrapped config error", err: errors.Join(errors.New("x"), config.ErrInvalidConfig), want: ExitUsage},
		{name: "window config error", err: &window.ConfigError{Field: "overscan", Err: window.ErrInvalidOverscan}, want: ExitUsage},
		{name: "violations", err: ErrInvariantViolations, want: ExitFailure},
		{name: "not interactive", err: ErrNotInteractive, want: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRootCmd_UsageErrors(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "window", "compute", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = execute(t, "window", "scroll-to")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = execute(t, "--cache-ttl", "-5", "window", "compute", "--count", "1")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestRootCmd_InvalidConfigFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "version: 3.0.0\n")

	_, _, err := execute(t, "window", "compute", "--count", "10")
	require.ErrorIs(t, err, config.ErrUnsupportedVersion)
	assert.Equal(t, ExitUsage, ExitCode(err))

	// The config group still runs so the file can be repaired.
	out, _, err := execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "window.overscan")

	_, _, err = execute(t, "config", "validate")
	require.ErrorIs(t, err, config.ErrUnsupportedVersion)
}

func TestRootCmd_ConfigFlag(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "version: 1.0.0\noutput:\n  default_format: csv\n  color: never\n")

	out, _, err := execute(t, "--config", path, "window", "compute", "--count", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "index,offset\n"), out)
}

func TestPromptConfirmOverwrite(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        bool
	}{
		{name: "yes", input: "y\n", interactive: true, want: true},
		{name: "YES", input: "YES\n", interactive: true, want: true},
		{name: "empty defaults to no", input: "\n", interactive: true, want: false},
		{name: "other declines", input: "nope\n", interactive: true, want: false},
		{name: "EOF declines", input: "", interactive: true, want: false},
		{name: "non-interactive never prompts", input: "y\n", interactive: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmOverwrite(&out, strings.NewReader(tt.input), "/tmp/config.yaml", tt.interactive)
			assert.Equal(t, tt.want, got.Accepted)
			assert.False(t, got.Cancelled)
			if tt.interactive {
				assert.Contains(t, out.String(), "/tmp/config.yaml already exists")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rollcall ")
	assert.Contains(t, out, config.SupportedVersions)

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"config_version": "`+config.CurrentVersion+`"`)
}
