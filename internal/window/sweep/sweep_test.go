package sweep

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rollcall/internal/window"
)

func TestRun_CleanSweep(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(50, 500))

	var callbacks int32
	report, err := Run(context.Background(), engine, 100, Options{
		BatchSize:   10,
		Concurrency: 4,
		OnProgress: func(s Snapshot) {
			atomic.AddInt32(&callbacks, 1)
			assert.LessOrEqual(t, s.ProcessedOffsets, s.TotalOffsets)
		},
	})
	require.NoError(t, err)

	assert.True(t, report.OK(), "violations: %v", report.Violations)
	assert.NotNil(t, report.Violations, "a clean report encodes an empty list")
	assert.True(t, report.Progress.Complete)
	assert.Equal(t, 91, report.Offsets)
	assert.InDelta(t, 50.0, report.Step, 0)
	assert.Equal(t, 10, report.Progress.TotalBatches)
	assert.Equal(t, 91, report.Progress.ProcessedOffsets)
	assert.InDelta(t, 100.0, report.Progress.PercentComplete, 0)
	assert.Equal(t, int32(10), atomic.LoadInt32(&callbacks))
}

func TestRun_FinalOffsetIncluded(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(50, 500))

	report, err := Run(context.Background(), engine, 100, Options{Step: 40})
	require.NoError(t, err)
	// 0, 40, ... 4480 and the 4500 tail.
	assert.Equal(t, 114, report.Offsets)
	assert.True(t, report.OK())
}

func TestRun_EmptyAndShortLists(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(50, 500))

	for _, count := range []int{0, 1, 5} {
		report, err := Run(context.Background(), engine, count, Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Offsets)
		assert.True(t, report.OK())
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(1, 10))
	ctx := context.Background()

	_, err := Run(ctx, nil, 10, Options{})
	require.ErrorIs(t, err, ErrNilEngine)

	_, err = Run(ctx, engine, -1, Options{})
	require.ErrorIs(t, err, window.ErrNegativeItemCount)

	_, err = Run(ctx, engine, 10, Options{Step: -1})
	require.ErrorIs(t, err, ErrInvalidStep)

	_, err = Run(ctx, engine, 10, Options{BatchSize: MaxBatchSize + 1})
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = Run(ctx, engine, 10_000_000, Options{Step: 1})
	require.ErrorIs(t, err, ErrTooManyOffsets)
}

func TestRun_Cancelled(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(1, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, engine, 100_000, Options{Step: 1, Concurrency: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateBatches(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 10}, {10, 20}, {20, 25}}, CalculateBatches(25, 10))
	assert.Equal(t, [][2]int{{0, 3}}, CalculateBatches(3, 10))
	assert.Nil(t, CalculateBatches(0, 10))
}

func TestCheck_ReportsBadInput(t *testing.T) {
	engine := window.MustEngine(window.NewConfig(50, 500))

	violations := Check(engine, 10, -1, -1)
	require.Len(t, violations, 1)
	assert.Equal(t, PropertyInput, violations[0].Property)

	assert.Empty(t, Check(engine, 100, 1000, 950))
}

func TestProgress(t *testing.T) {
	p := NewProgress(10, 2)
	assert.False(t, p.Snapshot().Complete)
	assert.InDelta(t, 0.0, p.PercentComplete(), 0)

	p.add(5, 1)
	assert.InDelta(t, 50.0, p.PercentComplete(), 0)

	p.add(5, 0)
	snap := p.Snapshot()
	assert.True(t, snap.Complete)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.Equal(t, 1, snap.Violations)
}
