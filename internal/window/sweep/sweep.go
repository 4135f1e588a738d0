package sweep

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/rollcall/internal/window"
)

// Default sweep configuration.
const (
	// DefaultBatchSize is the default number of offsets per batch.
	DefaultBatchSize = 256

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 10000

	// MaxOffsets caps the number of offsets a single sweep may evaluate.
	MaxOffsets = 1_000_000
)

// Property names reported in violations.
const (
	PropertyInput       = "input"
	PropertyBounds      = "bounds"
	PropertyTotalExtent = "total_extent"
	PropertyOffsets     = "offsets"
	PropertyIdempotent  = "idempotent"
	PropertyMonotonic   = "monotonic"
	PropertyOverscan    = "overscan"
)

// Common sweep errors.
var (
	ErrInvalidStep      = errors.New("step must be a finite number > 0")
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrTooManyOffsets   = fmt.Errorf("sweep would evaluate more than %d offsets", MaxOffsets)
	ErrNilEngine        = errors.New("sweep engine cannot be nil")
)

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(Snapshot)

// Options controls how a sweep is split and scheduled.
type Options struct {
	// Step is the distance between consecutive offsets. Zero means one item extent.
	Step float64

	// BatchSize is the number of offsets per batch. Zero means DefaultBatchSize.
	BatchSize int

	// Concurrency bounds the number of batches evaluated at once. Zero means runtime.NumCPU().
	Concurrency int

	// OnProgress is an optional callback for progress updates.
	OnProgress ProgressCallback
}

// Violation is a single failed invariant at one offset.
type Violation struct {
	Offset   float64 `json:"offset"   yaml:"offset"`
	Property string  `json:"property" yaml:"property"`
	Detail   string  `json:"detail"   yaml:"detail"`
}

// Report summarizes a completed sweep.
type Report struct {
	ItemCount  int           `json:"item_count" yaml:"item_count"`
	Config     window.Config `json:"config"     yaml:"config"`
	Step       float64       `json:"step"       yaml:"step"`
	Offsets    int           `json:"offsets"    yaml:"offsets"`
	Violations []Violation   `json:"violations" yaml:"violations"`
	Progress   Snapshot      `json:"progress"   yaml:"progress"`
}

// OK reports whether the sweep found no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// plan is the resolved offset grid for one sweep.
type plan struct {
	step      float64
	maxOffset float64
	count     int
}

// offsetAt returns the i-th offset; the final offset is always the maximum scroll offset.
func (p plan) offsetAt(i int) float64 {
	return math.Min(float64(i)*p.step, p.maxOffset)
}

// Run evaluates engine at every step between 0 and the maximum scroll offset for itemCount.
// It returns an error only for invalid options or cancellation; invariant failures are
// reported in Report.Violations.
func Run(ctx context.Context, engine *window.Engine, itemCount int, opts Options) (*Report, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if itemCount < 0 {
		return nil, fmt.Errorf("%w: got %d", window.ErrNegativeItemCount, itemCount)
	}

	p, batchSize, concurrency, err := resolve(engine, itemCount, opts)
	if err != nil {
		return nil, err
	}

	batches := CalculateBatches(p.count, batchSize)
	progress := NewProgress(p.count, len(batches))

	var (
		mu         sync.Mutex
		violations = []Violation{}
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, b := range batches {
		g.Go(func() error {
			var found []Violation
			for i := b[0]; i < b[1]; i++ {
				if err := gCtx.Err(); err != nil {
					return err
				}
				offset := p.offsetAt(i)
				prev := offset
				if i > 0 {
					prev = p.offsetAt(i - 1)
				}
				found = append(found, Check(engine, itemCount, offset, prev)...)
			}

			if len(found) > 0 {
				mu.Lock()
				violations = append(violations, found...)
				mu.Unlock()
			}

			progress.add(b[1]-b[0], len(found))
			if opts.OnProgress != nil {
				opts.OnProgress(progress.Snapshot())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep cancelled: %w", err)
	}

	slices.SortStableFunc(violations, func(a, b Violation) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	return &Report{
		ItemCount:  itemCount,
		Config:     engine.Config(),
		Step:       p.step,
		Offsets:    p.count,
		Violations: violations,
		Progress:   progress.Snapshot(),
	}, nil
}

// resolve applies option defaults and builds the offset grid.
//
//nolint:nonamedreturns // Named returns document the resolved values.
func resolve(engine *window.Engine, itemCount int, opts Options) (p plan, batchSize, concurrency int, err error) {
	step := opts.Step
	if step == 0 {
		step = engine.Config().ItemExtent
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return plan{}, 0, 0, fmt.Errorf("%w: got %v", ErrInvalidStep, opts.Step)
	}

	batchSize = opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return plan{}, 0, 0, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	concurrency = opts.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}

	maxOffset := engine.MaxScrollOffset(itemCount)
	steps := math.Floor(maxOffset / step)
	if steps+2 > MaxOffsets {
		return plan{}, 0, 0, fmt.Errorf("%w: step %v over %v", ErrTooManyOffsets, step, maxOffset)
	}

	count := int(steps) + 1
	if float64(count-1)*step < maxOffset {
		count++
	}

	return plan{step: step, maxOffset: maxOffset, count: count}, batchSize, concurrency, nil
}

// CalculateBatches returns [start, end) index pairs covering total items in batches of size.
func CalculateBatches(total, size int) [][2]int {
	if total <= 0 || size <= 0 {
		return nil
	}
	n := total / size
	if total%size > 0 {
		n++
	}

	batches := make([][2]int, n)
	for i := range n {
		start := i * size
		batches[i] = [2]int{start, min(start+size, total)}
	}
	return batches
}

// Check evaluates every window invariant for itemCount at offset. prevOffset is the
// preceding offset in the sweep; when it is smaller than offset, monotonicity is
// checked against it.
func Check(engine *window.Engine, itemCount int, offset, prevOffset float64) []Violation {
	var out []Violation
	report := func(property, format string, args ...any) {
		out = append(out, Violation{Offset: offset, Property: property, Detail: fmt.Sprintf(format, args...)})
	}

	cfg := engine.Config()
	w, err := engine.Window(itemCount, offset)
	if err != nil {
		report(PropertyInput, "%v", err)
		return out
	}

	if want := float64(itemCount) * cfg.ItemExtent; w.TotalExtent != want {
		report(PropertyTotalExtent, "total extent %v, want %v", w.TotalExtent, want)
	}

	switch {
	case itemCount == 0 && !w.Empty():
		report(PropertyBounds, "empty list produced %d entries", w.Len())
	case itemCount > 0 && (w.Start < 0 || w.Start > w.End || w.End > itemCount-1):
		report(PropertyBounds, "range [%d, %d] outside [0, %d]", w.Start, w.End, itemCount-1)
	}

	for i, off := range w.All() {
		if off != float64(i)*cfg.ItemExtent {
			report(PropertyOffsets, "index %d at %v, want %v", i, off, float64(i)*cfg.ItemExtent)
			break
		}
	}

	if again, _ := engine.Window(itemCount, offset); again != w {
		report(PropertyIdempotent, "recomputation differs: %+v vs %+v", again, w)
	}

	if prevOffset < offset && itemCount > 0 {
		prev, _ := engine.Window(itemCount, prevOffset)
		if w.Start < prev.Start || w.End < prev.End {
			report(PropertyMonotonic, "[%d, %d] at %v regressed from [%d, %d] at %v",
				w.Start, w.End, offset, prev.Start, prev.End, prevOffset)
		}
	}

	if itemCount > 0 {
		bare := cfg
		bare.Overscan = 0
		narrow := window.Compute(itemCount, bare, engine.ClampOffset(itemCount, offset))
		if w.Start > narrow.Start || w.End < narrow.End {
			report(PropertyOverscan, "overscan %d range [%d, %d] narrower than [%d, %d]",
				cfg.Overscan, w.Start, w.End, narrow.Start, narrow.End)
		}
	}

	return out
}
