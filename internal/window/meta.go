package window

import (
	"math"
)

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Meta describes where a scroll offset sits within a list, in viewport-sized pages.
type Meta struct {
	FirstVisible    int     `json:"first_visible"    yaml:"first_visible"`
	LastVisible     int     `json:"last_visible"     yaml:"last_visible"`
	CurrentPage     int     `json:"current_page"     yaml:"current_page"`
	TotalPages      int     `json:"total_pages"      yaml:"total_pages"`
	HasPrevious     bool    `json:"has_previous"     yaml:"has_previous"`
	HasNext         bool    `json:"has_next"         yaml:"has_next"`
	PercentScrolled float64 `json:"percent_scrolled" yaml:"percent_scrolled"`
}

// Meta computes visibility and paging metadata for itemCount at scrollOffset.
// Unlike Window it ignores overscan: FirstVisible and LastVisible bound the
// items that actually intersect the viewport. For an empty list both are -1.
func (e *Engine) Meta(itemCount int, scrollOffset float64) (Meta, error) {
	if err := checkInputs(itemCount, scrollOffset); err != nil {
		return Meta{}, err
	}
	if itemCount == 0 {
		return Meta{FirstVisible: -1, LastVisible: -1}, nil
	}

	offset := e.ClampOffset(itemCount, scrollOffset)
	w := Compute(itemCount, Config{ItemExtent: e.cfg.ItemExtent, ViewportExtent: e.cfg.ViewportExtent}, offset)

	// RawEnd is exclusive: it is the first index whose leading edge is at or past the viewport end.
	first := min(e.IndexAtOffset(offset), itemCount-1)
	last := min(max(int(w.RawEnd)-1, first), itemCount-1)

	totalPages := int(math.Ceil(e.TotalExtent(itemCount) / e.cfg.ViewportExtent))
	currentPage := min(int(math.Floor(offset/e.cfg.ViewportExtent))+1, totalPages)

	maxOffset := e.MaxScrollOffset(itemCount)
	percent := float64(percentMultiplier)
	if maxOffset > 0 {
		percent = offset / maxOffset * percentMultiplier
	}

	return Meta{
		FirstVisible:    first,
		LastVisible:     last,
		CurrentPage:     currentPage,
		TotalPages:      totalPages,
		HasPrevious:     offset > 0,
		HasNext:         offset < maxOffset,
		PercentScrolled: percent,
	}, nil
}
