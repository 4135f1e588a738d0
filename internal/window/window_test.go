package window

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Scenarios(t *testing.T) {
	cfg := Config{ItemExtent: 50, ViewportExtent: 500, Overscan: 3}

	tests := []struct {
		name        string
		itemCount   int
		offset      float64
		wantRawFrom float64
		wantRawTo   float64
		wantStart   int
		wantEnd     int
	}{
		{
			name:        "top of a long list",
			itemCount:   100,
			offset:      0,
			wantRawFrom: 0,
			wantRawTo:   10,
			wantStart:   0,
			wantEnd:     13,
		},
		{
			name:        "middle of a long list",
			itemCount:   100,
			offset:      1000,
			wantRawFrom: 20,
			wantRawTo:   30,
			wantStart:   17,
			wantEnd:     33,
		},
		{
			name:        "list shorter than viewport clamps end",
			itemCount:   5,
			offset:      0,
			wantRawFrom: 0,
			wantRawTo:   10,
			wantStart:   0,
			wantEnd:     4,
		},
		{
			name:        "partial item at viewport edge",
			itemCount:   100,
			offset:      1025,
			wantRawFrom: 20,
			wantRawTo:   31,
			wantStart:   17,
			wantEnd:     34,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Compute(tt.itemCount, cfg, tt.offset)

			assert.InDelta(t, tt.wantRawFrom, w.RawStart, 0)
			assert.InDelta(t, tt.wantRawTo, w.RawEnd, 0)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.wantEnd-tt.wantStart+1, w.Len())
		})
	}
}

func TestCompute_EmptyList(t *testing.T) {
	configs := []Config{
		{ItemExtent: 50, ViewportExtent: 500, Overscan: 3},
		{ItemExtent: 1, ViewportExtent: 1, Overscan: 0},
		{ItemExtent: 17.5, ViewportExtent: 300, Overscan: 10},
	}

	for _, cfg := range configs {
		for _, offset := range []float64{0, 1, 1000, 1e9} {
			w := Compute(0, cfg, offset)
			assert.True(t, w.Empty())
			assert.Empty(t, w.Entries())
			assert.NotNil(t, w.Entries())
			assert.InDelta(t, 0.0, w.TotalExtent, 0)
		}
	}
}

func TestScrollToIndex(t *testing.T) {
	assert.InDelta(t, 1000.0, ScrollToIndex(20, Config{ItemExtent: 50}), 0)
	assert.InDelta(t, 0.0, ScrollToIndex(0, Config{ItemExtent: 50}), 0)
	// Out-of-range indices are not clamped.
	assert.InDelta(t, 50000.0, ScrollToIndex(1000, Config{ItemExtent: 50}), 0)
}

func TestCompute_DegenerateExtents(t *testing.T) {
	t.Run("zero extent at zero offset is NaN", func(t *testing.T) {
		w := Compute(10, Config{ItemExtent: 0, ViewportExtent: 500}, 0)
		assert.True(t, math.IsNaN(w.RawStart))
		assert.True(t, w.Empty())
	})

	t.Run("zero extent at positive offset is infinite", func(t *testing.T) {
		w := Compute(10, Config{ItemExtent: 0, ViewportExtent: 500}, 100)
		assert.True(t, math.IsInf(w.RawStart, 1))
		assert.True(t, math.IsInf(w.RawEnd, 1))
		assert.True(t, w.Empty())
	})
}

func TestWindow_EntriesAndOffsets(t *testing.T) {
	cfg := Config{ItemExtent: 50, ViewportExtent: 500, Overscan: 3}
	w := Compute(100, cfg, 1000)

	entries := w.Entries()
	require.Len(t, entries, 17)
	for i, e := range entries {
		assert.Equal(t, 17+i, e.Index)
		assert.InDelta(t, float64(e.Index)*cfg.ItemExtent, e.Offset, 0)
	}

	assert.True(t, w.Contains(17))
	assert.True(t, w.Contains(33))
	assert.False(t, w.Contains(16))
	assert.False(t, w.Contains(34))
}

func TestWindow_AllIsRestartable(t *testing.T) {
	w := Compute(100, Config{ItemExtent: 50, ViewportExtent: 500, Overscan: 3}, 1000)

	collect := func() []Entry {
		var out []Entry
		for i, off := range w.All() {
			out = append(out, Entry{Index: i, Offset: off})
		}
		return out
	}

	first := collect()
	second := collect()
	assert.Equal(t, first, second)
	assert.Equal(t, w.Entries(), first)

	// Breaking out early must not disturb the next range.
	for i := range w.Indices() {
		if i == 20 {
			break
		}
	}
	assert.Equal(t, first, collect())
	assert.Equal(t, 17, slices.Collect(w.Indices())[0])
}

// propertyConfigs returns a grid of valid configurations for invariant checks.
func propertyConfigs() []Config {
	return []Config{
		{ItemExtent: 50, ViewportExtent: 500, Overscan: 3},
		{ItemExtent: 1, ViewportExtent: 24, Overscan: 0},
		{ItemExtent: 33.3, ViewportExtent: 100, Overscan: 5},
		{ItemExtent: 200, ViewportExtent: 50, Overscan: 1},
	}
}

func TestEngine_Invariants(t *testing.T) {
	for _, cfg := range propertyConfigs() {
		engine := MustEngine(cfg)
		for _, count := range []int{0, 1, 2, 7, 100, 10000} {
			total := engine.TotalExtent(count)
			for step := 0; step <= 40; step++ {
				offset := total * float64(step) / 37

				w, err := engine.Window(count, offset)
				require.NoError(t, err)

				assert.InDelta(t, float64(count)*cfg.ItemExtent, w.TotalExtent, 0)

				if count == 0 {
					assert.True(t, w.Empty())
					continue
				}
				assert.GreaterOrEqual(t, w.Start, 0)
				assert.LessOrEqual(t, w.Start, w.End)
				assert.LessOrEqual(t, w.End, count-1)

				for i, off := range w.All() {
					assert.InDelta(t, float64(i)*cfg.ItemExtent, off, 0)
				}

				again, err := engine.Window(count, offset)
				require.NoError(t, err)
				assert.Equal(t, w, again)
			}
		}
	}
}

func TestEngine_Monotonic(t *testing.T) {
	for _, cfg := range propertyConfigs() {
		engine := MustEngine(cfg)
		count := 500
		prev, err := engine.Window(count, 0)
		require.NoError(t, err)

		for offset := 0.0; offset <= engine.TotalExtent(count)+cfg.ViewportExtent; offset += cfg.ItemExtent / 3 {
			w, err := engine.Window(count, offset)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, w.Start, prev.Start, "offset %v", offset)
			assert.GreaterOrEqual(t, w.End, prev.End, "offset %v", offset)
			prev = w
		}
	}
}

func TestCompute_OverscanOnlyWidens(t *testing.T) {
	base := Config{ItemExtent: 50, ViewportExtent: 500}
	for _, count := range []int{1, 5, 100} {
		for _, offset := range []float64{0, 75, 1000, 4500} {
			narrow, err := MustEngine(base).Window(count, offset)
			require.NoError(t, err)
			for k := 1; k <= 6; k++ {
				cfg := base
				cfg.Overscan = k
				wide, err := MustEngine(cfg).Window(count, offset)
				require.NoError(t, err)

				assert.LessOrEqual(t, wide.Start, narrow.Start)
				assert.GreaterOrEqual(t, wide.End, narrow.End)
				assert.LessOrEqual(t, wide.Start, max(0, int(wide.RawStart)-k))
				assert.GreaterOrEqual(t, wide.End, min(count-1, int(wide.RawEnd)+k))
			}
		}
	}
}
