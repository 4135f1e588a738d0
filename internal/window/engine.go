package window

import (
	"fmt"
	"math"
)

// Engine is a validated windowing session over a fixed Config.
// It is immutable and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// MustEngine is NewEngine for fixed layout constants; it panics on an invalid config.
func MustEngine(cfg Config) *Engine {
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Window computes the window for itemCount at scrollOffset.
//
// Offsets past the end of the scrollable range are clamped to MaxScrollOffset,
// which keeps 0 ≤ Start ≤ End ≤ itemCount-1 for every non-empty list.
func (e *Engine) Window(itemCount int, scrollOffset float64) (Window, error) {
	if err := checkInputs(itemCount, scrollOffset); err != nil {
		return Window{}, err
	}
	return Compute(itemCount, e.cfg, e.ClampOffset(itemCount, scrollOffset)), nil
}

// ScrollToIndex returns the offset that aligns index with the viewport's leading edge.
func (e *Engine) ScrollToIndex(index int) float64 {
	return ScrollToIndex(index, e.cfg)
}

// TotalExtent returns itemCount × ItemExtent.
func (e *Engine) TotalExtent(itemCount int) float64 {
	return float64(itemCount) * e.cfg.ItemExtent
}

// MaxScrollOffset returns the largest offset at which the viewport still shows content.
// It is 0 when the whole list fits in the viewport.
func (e *Engine) MaxScrollOffset(itemCount int) float64 {
	return math.Max(0, e.TotalExtent(itemCount)-e.cfg.ViewportExtent)
}

// ClampOffset bounds offset to [0, MaxScrollOffset(itemCount)].
func (e *Engine) ClampOffset(itemCount int, offset float64) float64 {
	return math.Min(math.Max(0, offset), e.MaxScrollOffset(itemCount))
}

// IndexAtOffset returns the index whose extent contains offset, unclamped.
func (e *Engine) IndexAtOffset(offset float64) int {
	return int(math.Floor(offset / e.cfg.ItemExtent))
}

// EnsureVisible returns the smallest scroll adjustment of offset that shows index in full.
// An item taller than the viewport is aligned to its leading edge.
func (e *Engine) EnsureVisible(itemCount, index int, offset float64) float64 {
	if itemCount <= 0 {
		return 0
	}
	index = min(max(index, 0), itemCount-1)

	top := e.ScrollToIndex(index)
	bottom := top + e.cfg.ItemExtent

	next := offset
	if bottom > next+e.cfg.ViewportExtent {
		next = bottom - e.cfg.ViewportExtent
	}
	if top < next {
		next = top
	}
	return e.ClampOffset(itemCount, next)
}

// checkInputs rejects arguments that would make Compute produce a degenerate window.
func checkInputs(itemCount int, scrollOffset float64) error {
	if itemCount < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeItemCount, itemCount)
	}
	if math.IsNaN(scrollOffset) || math.IsInf(scrollOffset, 0) || scrollOffset < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidScrollOffset, scrollOffset)
	}
	return nil
}
