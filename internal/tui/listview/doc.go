// Package listview provides a virtually scrolled list component for Bubble Tea TUI applications.
//
// The list keeps a window.Tracker with one row per item, so scrolling and
// selection go through the same windowing math as the rest of rollcall. Only
// the materialized window is ever rendered. Key features:
//   - O(viewport height + overscan) render cost regardless of list length
//   - Keyboard navigation (up/down, pgup/pgdn, home/end, j/k, g/G) and mouse wheel scrolling
//   - The selected row is kept fully visible with minimal scrolling
//   - Rendered rows are cached per index and pruned to the current window
package listview
