// Package sweep evaluates a windowing engine across every scroll offset of a list
// and checks the window invariants at each one.
//
// Offsets are generated from 0 to the maximum scroll offset at a fixed step and
// split into fixed-size batches. Batches run concurrently under a bounded
// errgroup, report progress through an optional callback, and honor context
// cancellation. Key checks per offset:
//   - 0 ≤ start ≤ end ≤ count-1 (or an empty window for an empty list)
//   - total extent equals count × item extent
//   - every materialized offset equals index × item extent
//   - recomputation is idempotent
//   - start and end never decrease as the offset grows
//   - overscan never narrows the range relative to overscan 0
package sweep
