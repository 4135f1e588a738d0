package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rollcall.log")

	result := NewLoggerWithPath(Config{Level: "debug", Format: FormatJSON, Output: OutputFile, File: path})
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Debug().Str("k", "v").Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewLoggerWithPath_FallbackWithoutFile(t *testing.T) {
	result := NewLoggerWithPath(Config{Output: OutputFile})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())
}

func TestTraceHookAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(zerolog.New(&buf).Hook(TraceHook{}), "window")

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	logger.Info().Ctx(ctx).Msg("computed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-123", entry[TraceIDField])
	assert.Equal(t, "window", entry["component"])
}

func TestGetOrGenerateTraceID(t *testing.T) {
	generated := GetOrGenerateTraceID(context.Background())
	_, err := ulid.Parse(generated)
	require.NoError(t, err)

	ctx := ContextWithTraceID(context.Background(), generated)
	assert.Equal(t, generated, GetOrGenerateTraceID(ctx))
	assert.Empty(t, TraceIDFromContext(nil)) //nolint:staticcheck // nil context is handled explicitly.
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// Missing logger is disabled rather than nil.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), "/tmp/x.log")
	assert.Contains(t, buf.String(), "denied")
}
