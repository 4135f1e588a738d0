package window

import (
	"iter"
	"math"
)

// DefaultOverscan is the number of extra items materialized beyond each edge of the viewport.
const DefaultOverscan = 3

// Config describes a uniform-extent virtualized list.
// Extents share whatever unit the consumer scrolls in (pixels, terminal rows).
type Config struct {
	// ItemExtent is the fixed size of one item along the scroll axis.
	ItemExtent float64 `json:"item_extent" yaml:"item_extent"`

	// ViewportExtent is the size of the visible area along the scroll axis.
	ViewportExtent float64 `json:"viewport_extent" yaml:"viewport_extent"`

	// Overscan is the number of items materialized beyond each viewport edge.
	Overscan int `json:"overscan" yaml:"overscan"`
}

// NewConfig returns a Config with DefaultOverscan.
func NewConfig(itemExtent, viewportExtent float64) Config {
	return Config{
		ItemExtent:     itemExtent,
		ViewportExtent: viewportExtent,
		Overscan:       DefaultOverscan,
	}
}

// Validate checks that the extents are finite and positive and that overscan is non-negative.
func (c Config) Validate() error {
	if !(c.ItemExtent > 0) || math.IsInf(c.ItemExtent, 0) {
		return &ConfigError{Field: "item_extent", Value: c.ItemExtent, Err: ErrInvalidItemExtent}
	}
	if !(c.ViewportExtent > 0) || math.IsInf(c.ViewportExtent, 0) {
		return &ConfigError{Field: "viewport_extent", Value: c.ViewportExtent, Err: ErrInvalidViewportExtent}
	}
	if c.Overscan < 0 {
		return &ConfigError{Field: "overscan", Value: c.Overscan, Err: ErrInvalidOverscan}
	}
	return nil
}

// WithViewport returns a copy of c with a new viewport extent.
// A resize is a new config; the receiver is left untouched.
func (c Config) WithViewport(viewportExtent float64) Config {
	c.ViewportExtent = viewportExtent
	return c
}

// Entry is a single materialized index and the offset of its leading edge.
type Entry struct {
	Index  int     `json:"index"  yaml:"index"`
	Offset float64 `json:"offset" yaml:"offset"`
}

// Window is the slice of a list that must be materialized for one scroll offset.
// It is derived, never stored: recompute it whenever the offset or config changes.
//
// Start and End are inclusive. When the window is empty End < Start and neither
// is meaningful.
type Window struct {
	// Start is the first materialized index (inclusive).
	Start int `json:"start_index" yaml:"start_index"`

	// End is the last materialized index (inclusive).
	End int `json:"end_index" yaml:"end_index"`

	// ItemExtent is the per-item extent the offsets were computed with.
	ItemExtent float64 `json:"item_extent" yaml:"item_extent"`

	// ItemCount is the list length the window was computed for.
	ItemCount int `json:"item_count" yaml:"item_count"`

	// TotalExtent is ItemCount × ItemExtent.
	TotalExtent float64 `json:"total_extent" yaml:"total_extent"`

	// RawStart is floor(scrollOffset / itemExtent), before overscan and clamping.
	RawStart float64 `json:"raw_start" yaml:"raw_start"`

	// RawEnd is ceil((scrollOffset + viewportExtent) / itemExtent), before overscan and clamping.
	RawEnd float64 `json:"raw_end" yaml:"raw_end"`
}

// Compute maps (itemCount, cfg, scrollOffset) to the window of indices to materialize.
//
// No input is validated. A zero or negative item extent yields infinite or NaN
// raw indices; any range that cannot be expressed as a finite ascending
// interval is returned empty. Callers that want fail-fast behavior use Engine.
func Compute(itemCount int, cfg Config, scrollOffset float64) Window {
	w := Window{
		Start:       0,
		End:         -1,
		ItemExtent:  cfg.ItemExtent,
		ItemCount:   itemCount,
		TotalExtent: float64(itemCount) * cfg.ItemExtent,
		RawStart:    math.Floor(scrollOffset / cfg.ItemExtent),
		RawEnd:      math.Ceil((scrollOffset + cfg.ViewportExtent) / cfg.ItemExtent),
	}
	if itemCount <= 0 {
		return w
	}

	overscan := float64(cfg.Overscan)
	start := math.Max(0, w.RawStart-overscan)
	end := math.Min(float64(itemCount-1), w.RawEnd+overscan)

	// NaN fails every comparison, so this also rejects 0/0.
	if !(start <= end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return w
	}

	w.Start = int(start)
	w.End = int(end)
	return w
}

// ScrollToIndex returns the scroll offset that brings index's leading edge to the
// viewport's leading edge. The index is not clamped to any item count.
func ScrollToIndex(index int, cfg Config) float64 {
	return float64(index) * cfg.ItemExtent
}

// Len returns the number of materialized indices.
func (w Window) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start + 1
}

// Empty reports whether the window materializes nothing.
func (w Window) Empty() bool {
	return w.Len() == 0
}

// Contains reports whether index is materialized by w.
func (w Window) Contains(index int) bool {
	return !w.Empty() && index >= w.Start && index <= w.End
}

// Offset returns the leading-edge offset of index.
func (w Window) Offset(index int) float64 {
	return float64(index) * w.ItemExtent
}

// All returns the ascending (index, offset) pairs of the window.
// The sequence holds no cursor: every range over it replays the same pairs.
func (w Window) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i := w.Start; i <= w.End; i++ {
			if !yield(i, w.Offset(i)) {
				return
			}
		}
	}
}

// Indices returns the ascending materialized indices.
func (w Window) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := w.Start; i <= w.End; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Entries materializes the window as a slice. It returns an empty, non-nil slice
// for an empty window so JSON output renders [] rather than null.
func (w Window) Entries() []Entry {
	entries := make([]Entry, 0, w.Len())
	for i, off := range w.All() {
		entries = append(entries, Entry{Index: i, Offset: off})
	}
	return entries
}
