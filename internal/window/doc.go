// Package window computes virtual-scrolling windows over uniform-extent lists.
//
// Given a total item count, a fixed per-item extent, a viewport extent and a
// scroll offset, the engine derives the contiguous range of indices that must
// be materialized (the visible items plus an overscan margin on each side), the
// leading-edge offset of each such index, and the total scrollable extent.
// Key properties:
//   - Constant-time computation regardless of item count
//   - Pure: no I/O, no shared mutable state, identical inputs give identical windows
//   - Restartable iteration via Window.All (range-over-func)
//
// Two layers are provided. Compute and ScrollToIndex are the raw arithmetic and
// validate nothing; misuse propagates as degenerate (infinite or NaN) raw
// indices. Engine validates its Config once at construction and rejects
// negative counts and offsets, so the CLI and TUI only ever see well-formed
// windows.
//
// Tracker layers the last-write-wins freshness policy on top of an Engine for
// callers that observe a high-frequency scroll stream.
package window
