package pagination

import (
	"errors"
	"fmt"
	"math"

	"github.com/rshade/rollcall/internal/window"
)

// Flag defaults and limits.
const (
	DefaultOffset = 0
	DefaultPage   = 0
	MinPage       = 1
	NoIndex       = -1
	MaxItemCount  = 100_000_000
)

// Common validation errors.
var (
	ErrInvalidCount       = errors.New("count must be between 0 and 100000000")
	ErrInvalidOffset      = errors.New("offset must be a finite, non-negative number")
	ErrInvalidPage        = errors.New("page must be >= 1")
	ErrInvalidIndex       = errors.New("index must be non-negative")
	ErrMixedScrollModes   = errors.New("--offset, --page and --index are mutually exclusive")
	ErrIndexOutOfRange    = errors.New("index is past the end of the list")
	ErrPageOutOfRange     = errors.New("page is past the last page")
	ErrInvalidWindowFlags = errors.New("invalid window flags")
)

// Params holds the CLI flags that describe a list and a scroll position within it.
type Params struct {
	// Count is the number of items in the list.
	Count int

	// Window holds item extent, viewport extent and overscan.
	Window window.Config

	// Offset is the raw scroll offset (offset-based mode).
	Offset float64

	// Page is the 1-based viewport-sized page (page-based mode). Zero means unset.
	Page int

	// Index is the item to scroll to (index-based mode). NoIndex means unset.
	Index int
}

// NewParams creates Params with the given window defaults and no scroll position.
func NewParams(cfg window.Config) *Params {
	return &Params{
		Window: cfg,
		Offset: DefaultOffset,
		Page:   DefaultPage,
		Index:  NoIndex,
	}
}

// Validate checks bounds and that at most one scroll mode is set.
// Window parameters are checked by window.Config.Validate.
func (p Params) Validate() error {
	if p.Count < 0 || p.Count > MaxItemCount {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, p.Count)
	}
	if math.IsNaN(p.Offset) || math.IsInf(p.Offset, 0) || p.Offset < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidOffset, p.Offset)
	}
	if p.Page < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.Index < NoIndex {
		return fmt.Errorf("%w: got %d", ErrInvalidIndex, p.Index)
	}

	modes := 0
	if p.Offset > 0 {
		modes++
	}
	if p.IsPageBased() {
		modes++
	}
	if p.IsIndexBased() {
		modes++
	}
	if modes > 1 {
		return ErrMixedScrollModes
	}

	if err := p.Window.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWindowFlags, err)
	}
	return nil
}

// IsPageBased returns true if --page is set.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// IsIndexBased returns true if --index is set.
func (p Params) IsIndexBased() bool {
	return p.Index > NoIndex
}

// IsOffsetBased returns true if neither --page nor --index is set.
func (p Params) IsOffsetBased() bool {
	return !p.IsPageBased() && !p.IsIndexBased()
}

// Engine validates the params and returns an engine for their window config.
func (p Params) Engine() (*window.Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return window.NewEngine(p.Window)
}

// EffectiveOffset resolves the active scroll mode to a scroll offset.
//
// Pages are viewport-sized: page P starts at (P-1) × ViewportExtent. An index
// or page past the end of a non-empty list is an error rather than a silent clamp.
func (p Params) EffectiveOffset(e *window.Engine) (float64, error) {
	switch {
	case p.IsIndexBased():
		if p.Count > 0 && p.Index >= p.Count {
			return 0, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, p.Index, p.Count)
		}
		return e.ScrollToIndex(p.Index), nil
	case p.IsPageBased():
		if total := p.TotalPages(); total > 0 && p.Page > total {
			return 0, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, p.Page, total)
		}
		return float64(p.Page-MinPage) * p.Window.ViewportExtent, nil
	default:
		return p.Offset, nil
	}
}

// TotalPages returns the number of viewport-sized pages in the list.
func (p Params) TotalPages() int {
	if p.Count == 0 || !(p.Window.ViewportExtent > 0) {
		return 0
	}
	total := float64(p.Count) * p.Window.ItemExtent
	return int(math.Ceil(total / p.Window.ViewportExtent))
}
