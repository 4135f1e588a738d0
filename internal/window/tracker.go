package window

import (
	"fmt"
	"math"
	"sync"
)

// Tracker holds the latest observed scroll offset and item count for one list and
// serves the window for them on demand.
//
// Observations are last-write-wins: nothing is queued, and a burst of Observe
// calls between two reads of Current costs a single computation. Every accepted
// change bumps Generation, so consumers can detect that a window they hold is stale.
// Safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	engine    *Engine
	itemCount int
	offset    float64

	// generation increments on every change to engine, itemCount or offset.
	generation uint64

	// cached is the window for cachedGen; valid only when cachedGen == generation.
	cached    Window
	cachedGen uint64
	hasCached bool

	// recomputes counts actual Compute calls made by Current.
	recomputes uint64
}

// NewTracker creates a tracker positioned at offset 0.
func NewTracker(engine *Engine, itemCount int) (*Tracker, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if itemCount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeItemCount, itemCount)
	}
	return &Tracker{engine: engine, itemCount: itemCount, generation: 1}, nil
}

// Observe records the latest scroll offset, clamped to the scrollable range.
// It returns the offset actually stored.
func (t *Tracker) Observe(offset float64) (float64, error) {
	if err := checkInputs(0, offset); err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setOffsetLocked(offset)
	return t.offset, nil
}

// ScrollBy moves the offset by delta (negative scrolls toward the start) and
// returns the clamped result. A NaN or infinite delta leaves the offset unchanged.
func (t *Tracker) ScrollBy(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return t.offset
	}
	t.setOffsetLocked(t.offset + delta)
	return t.offset
}

// ScrollToIndex aligns index with the viewport's leading edge, clamped to the scrollable range.
func (t *Tracker) ScrollToIndex(index int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setOffsetLocked(t.engine.ScrollToIndex(index))
	return t.offset
}

// EnsureVisible scrolls the minimum distance needed to show index in full.
func (t *Tracker) EnsureVisible(index int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setOffsetLocked(t.engine.EnsureVisible(t.itemCount, index, t.offset))
	return t.offset
}

// SetItemCount replaces the item count and re-clamps the current offset.
func (t *Tracker) SetItemCount(itemCount int) error {
	if itemCount < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeItemCount, itemCount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if itemCount == t.itemCount {
		return nil
	}
	t.itemCount = itemCount
	t.generation++
	t.setOffsetLocked(t.offset)
	return nil
}

// Resize swaps in a config with a new viewport extent. The item extent and
// overscan are kept; the new config is validated before it replaces the old one.
func (t *Tracker) Resize(viewportExtent float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cfg := t.engine.Config()
	if cfg.ViewportExtent == viewportExtent {
		return nil
	}
	engine, err := NewEngine(cfg.WithViewport(viewportExtent))
	if err != nil {
		return err
	}
	t.engine = engine
	t.generation++
	t.setOffsetLocked(t.offset)
	return nil
}

// Current returns the window for the latest observed inputs, recomputing only
// when they changed since the previous call.
func (t *Tracker) Current() Window {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hasCached && t.cachedGen == t.generation {
		return t.cached
	}
	// Inputs are validated on the way in, so the raw computation is safe here.
	t.cached = Compute(t.itemCount, t.engine.Config(), t.offset)
	t.cachedGen = t.generation
	t.hasCached = true
	t.recomputes++
	return t.cached
}

// Meta returns paging metadata for the latest observed inputs.
func (t *Tracker) Meta() Meta {
	t.mu.Lock()
	engine, count, offset := t.engine, t.itemCount, t.offset
	t.mu.Unlock()

	// count and offset were validated when stored.
	m, _ := engine.Meta(count, offset)
	return m
}

// Offset returns the latest stored scroll offset.
func (t *Tracker) Offset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// ItemCount returns the tracked item count.
func (t *Tracker) ItemCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.itemCount
}

// Config returns the active config.
func (t *Tracker) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Config()
}

// Generation returns a counter that increases on every accepted input change.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Recomputes returns how many times Current actually ran the computation.
func (t *Tracker) Recomputes() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recomputes
}

// setOffsetLocked clamps and stores offset. Must be called with mu held.
func (t *Tracker) setOffsetLocked(offset float64) {
	clamped := t.engine.ClampOffset(t.itemCount, offset)
	if clamped != t.offset {
		t.offset = clamped
		t.generation++
	}
}
