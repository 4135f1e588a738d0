// Package pagination validates the scroll-position flags of the window commands.
//
// A scroll position can be given three ways, and they are mutually exclusive:
//   - Offset-based: --offset, a raw scroll offset in extent units
//   - Page-based: --page, a 1-based viewport-sized page
//   - Index-based: --index, the item to align with the viewport's leading edge
//
// Params resolves whichever mode is active to a single scroll offset for the
// windowing engine.
package pagination
