// Package cache provides an in-memory keyed cache with TTL expiration and a bounded
// entry count.
//
// The list view uses it to keep rendered rows for the materialized window so that
// scrolling back over recently seen rows does not re-render them. Key features:
//   - Generic keys and values
//   - Configurable TTL (default 5 minutes) via config file, environment variable, or CLI flag
//   - Oldest-first eviction once MaxEntries is reached
//   - Prune to drop everything outside the current window in one pass
//
// Nothing is persisted; entries live for the lifetime of the Store.
package cache
