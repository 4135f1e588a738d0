package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rollcall/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Version: "1.0.0",
		Window: config.WindowConfig{
			ItemExtent:     50,
			ViewportExtent: 500,
			Overscan:       3,
		},
		Output: config.OutputConfig{
			DefaultFormat: "table",
			Color:         "auto",
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: config.CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxEntries: 100,
		},
		Roster: config.RosterConfig{
			Source: "roster.csv",
		},
	}
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
  color: never
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "never", target.Output.Color)
	assert.InDelta(t, 50.0, target.Window.ItemExtent, 0, "window section must be untouched")
	assert.Equal(t, "roster.csv", target.Roster.Source)
}

func TestShallowMergeYAML_SectionReplacedWhole(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
window:
  overscan: 7
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 7, target.Window.Overscan)
	assert.Zero(t, target.Window.ItemExtent, "fields absent from an overlay section are zeroed")
	assert.Zero(t, target.Window.ViewportExtent)
}

func TestShallowMergeYAML_MultipleKeys(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
version: "1.2.0"
logging:
  level: debug
  format: json
cache:
  enabled: false
  ttl_seconds: 60
  max_entries: 10
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "1.2.0", target.Version)
	assert.Equal(t, config.LoggingConfig{Level: "debug", Format: "json"}, target.Logging)
	assert.Equal(t, config.CacheConfig{Enabled: false, TTLSeconds: 60, MaxEntries: 10}, target.Cache)
	assert.Equal(t, "table", target.Output.DefaultFormat)
}

func TestShallowMergeYAML_NoOpOverlays(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "comment only", content: "# nothing here\n"},
		{name: "unknown keys", content: "plugins:\n  foo: bar\nextra: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newDefaultTarget()
			require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, tt.content)))
			assert.Equal(t, newDefaultTarget(), target)
		})
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("corrupted YAML", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "window: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing overlay YAML")
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("wrong section type", func(t *testing.T) {
		err := config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "window: 12\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"window"`)
	})

	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, writeOverlay(t, "")))
	})
}
