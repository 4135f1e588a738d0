package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rollcall/internal/cli/pagination"
	"github.com/rshade/rollcall/internal/window"
	"github.com/rshade/rollcall/internal/window/sweep"
)

func decodeResult(t *testing.T, out string) window.Result {
	t.Helper()
	var r window.Result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	return r
}

func TestWindowCompute(t *testing.T) {
	isolate(t)

	list := []string{"window", "compute", "--count", "10000", "--item-extent", "50", "--viewport", "500"}

	tests := []struct {
		name      string
		args      []string
		wantStart int
		wantEnd   int
		wantCount int
	}{
		{name: "top", args: []string{"--offset", "0"}, wantStart: 0, wantEnd: 13, wantCount: 14},
		{name: "offset 1000", args: []string{"--offset", "1000"}, wantStart: 17, wantEnd: 33, wantCount: 17},
		{name: "page 3", args: []string{"--page", "3"}, wantStart: 17, wantEnd: 33, wantCount: 17},
		{name: "index without overscan", args: []string{"--index", "250", "--overscan", "0"}, wantStart: 250, wantEnd: 260, wantCount: 11},
		{name: "offset past the end is clamped", args: []string{"--offset", "1e9"}, wantStart: 9987, wantEnd: 9999, wantCount: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append(append([]string{}, list...), tt.args...), "--output", "json")
			out, _, err := execute(t, args...)
			require.NoError(t, err)

			r := decodeResult(t, out)
			assert.Equal(t, tt.wantStart, r.Window.Start)
			assert.Equal(t, tt.wantEnd, r.Window.End)
			assert.Len(t, r.Entries, tt.wantCount)
			assert.InDelta(t, 500_000.0, r.Window.TotalExtent, 0)
		})
	}
}

func TestWindowCompute_Formats(t *testing.T) {
	isolate(t)
	base := []string{"window", "compute", "--count", "10000", "--item-extent", "50", "--viewport", "500", "--offset", "1000"}

	out, _, err := execute(t, base...)
	require.NoError(t, err)
	assert.Contains(t, out, "Window:       17–33 (17 items)")
	assert.Contains(t, out, "INDEX")

	out, _, err = execute(t, append(base, "-o", "ndjson")...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 17)
	assert.JSONEq(t, `{"index":17,"offset":850}`, lines[0])

	out, _, err = execute(t, append(base, "-o", "csv")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "index,offset\n17,850\n"), out)

	out, _, err = execute(t, append(base, "-o", "yaml")...)
	require.NoError(t, err)
	assert.Contains(t, out, "start_index: 17")

	_, _, err = execute(t, append(base, "-o", "xml")...)
	require.ErrorIs(t, err, window.ErrUnsupportedFormat)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestWindowCompute_EmptyList(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "window", "compute", "--count", "0", "--output", "json")
	require.NoError(t, err)
	r := decodeResult(t, out)
	assert.True(t, r.Window.Empty())
	assert.Empty(t, r.Entries)
}

func TestWindowCompute_ConfigDefaults(t *testing.T) {
	isolate(t)

	// Defaults: item extent 1, viewport 20, overscan 3.
	out, _, err := execute(t, "window", "compute", "--count", "100", "-o", "json")
	require.NoError(t, err)
	r := decodeResult(t, out)
	assert.Equal(t, 0, r.Window.Start)
	assert.Equal(t, 23, r.Window.End)
	assert.InDelta(t, 20.0, r.Config.ViewportExtent, 0)
}

func TestWindowCompute_ProjectOverlay(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".rollcall", "config.yaml"),
		"window:\n  item_extent: 10\n  viewport_extent: 100\n  overscan: 0\n")

	out, _, err := execute(t, "--project-dir", project, "window", "compute", "--count", "50", "-o", "json")
	require.NoError(t, err)
	r := decodeResult(t, out)
	assert.Equal(t, 10, r.Window.End)
	assert.InDelta(t, 10.0, r.Config.ItemExtent, 0)
}

func TestWindowCompute_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "mixed modes", args: []string{"--count", "10", "--page", "2", "--offset", "5"}, wantErr: pagination.ErrMixedScrollModes},
		{name: "zero item extent", args: []string{"--count", "10", "--item-extent", "0"}, wantErr: window.ErrInvalidItemExtent},
		{name: "negative viewport", args: []string{"--count", "10", "--viewport", "-1"}, wantErr: window.ErrInvalidViewportExtent},
		{name: "negative overscan", args: []string{"--count", "10", "--overscan", "-1"}, wantErr: window.ErrInvalidOverscan},
		{name: "negative count", args: []string{"--count", "-1"}, wantErr: pagination.ErrInvalidCount},
		{name: "negative offset", args: []string{"--count", "10", "--offset", "-3"}, wantErr: pagination.ErrInvalidOffset},
		{name: "index past end", args: []string{"--count", "10", "--index", "10"}, wantErr: pagination.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"window", "compute"}, tt.args...)...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestWindowScrollTo(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "window", "scroll-to", "250", "--item-extent", "50")
	require.NoError(t, err)
	assert.Equal(t, "12500\n", out)

	out, _, err = execute(t, "window", "scroll-to", "3", "--item-extent", "12.5", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":3,"offset":37.5}`, out)

	out, _, err = execute(t, "window", "scroll-to", "3", "--item-extent", "12.5", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "index,offset\n3,37.5\n", out)

	_, _, err = execute(t, "window", "scroll-to", "100", "--item-extent", "50", "--count", "100")
	require.ErrorIs(t, err, pagination.ErrIndexOutOfRange)

	_, _, err = execute(t, "window", "scroll-to", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = execute(t, "window", "scroll-to", "-2")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestWindowSweep(t *testing.T) {
	isolate(t)
	args := []string{"window", "sweep", "--count", "200", "--item-extent", "10", "--viewport", "95",
		"--step", "2.5", "--batch-size", "16", "--concurrency", "4"}

	out, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Result:")
	assert.Contains(t, out, "OK")
	assert.NotContains(t, out, "PROPERTY")

	out, _, err = execute(t, append(args, "-o", "json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"violations": []`)
	var report sweep.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 200, report.ItemCount)
	assert.Empty(t, report.Violations)
	// 0 to 1905 in steps of 2.5.
	assert.Equal(t, 763, report.Offsets)
	assert.Equal(t, report.Offsets, report.Progress.ProcessedOffsets)
}

func TestWindowSweep_Errors(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "window", "sweep", "--count", "10", "-o", "csv")
	require.ErrorIs(t, err, window.ErrUnsupportedFormat)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = execute(t, "window", "sweep", "--count", "10", "--step", "-1")
	require.ErrorIs(t, err, sweep.ErrInvalidStep)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, _, err = execute(t, "window", "sweep", "--count", "10", "--batch-size", "0")
	require.NoError(t, err, "zero batch size means the default")

	_, _, err = execute(t, "window", "sweep", "--count", "10", "--batch-size", "20000")
	require.ErrorIs(t, err, sweep.ErrInvalidBatchSize)
}

func TestRenderSweepTable_Violations(t *testing.T) {
	report := &sweep.Report{
		ItemCount: 10,
		Config:    window.NewConfig(1, 5),
		Step:      1,
		Offsets:   30,
	}
	for i := range 25 {
		report.Violations = append(report.Violations, sweep.Violation{
			Offset: float64(i), Property: sweep.PropertyBounds, Detail: "start > end",
		})
	}

	var b strings.Builder
	require.NoError(t, renderSweepTable(&b, report, false))
	out := b.String()
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "PROPERTY")
	assert.Contains(t, out, "5 more")
	assert.Equal(t, maxListedViolations, strings.Count(out, "start > end"))

	b.Reset()
	require.NoError(t, renderSweepTable(&b, report, true))
	assert.Contains(t, b.String(), "FAILED")

	require.ErrorIs(t, renderSweepTable(failingWriter{}, report, false), errWriteFailed)
}

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }
