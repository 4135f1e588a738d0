package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Common cache errors.
var (
	ErrCacheNotFound     = errors.New("cache entry not found")
	ErrCacheExpired      = errors.New("cache entry expired")
	ErrCacheDisabled     = errors.New("cache is disabled")
	ErrInvalidMaxEntries = errors.New("max entries must be >= 0")
)

// Options configures a Store.
type Options struct {
	// Enabled controls whether caching is active.
	Enabled bool

	// TTL is the lifetime of each entry.
	TTL time.Duration

	// MaxEntries bounds the number of live entries (0 = unlimited).
	MaxEntries int

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Store is an in-memory TTL cache. Safe for concurrent use.
type Store[K comparable, V any] struct {
	enabled    bool
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	entries map[K]*Entry[V]

	// hits and misses count Get outcomes.
	hits   uint64
	misses uint64

	mu sync.RWMutex
}

// NewStore creates a cache store.
func NewStore[K comparable, V any](opts Options) (*Store[K, V], error) {
	if opts.MaxEntries < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxEntries, opts.MaxEntries)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTLConfig().Duration
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store[K, V]{
		enabled:    opts.Enabled,
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		now:        now,
		entries:    make(map[K]*Entry[V]),
	}, nil
}

// Get returns the value for key. Expired entries are removed and reported as ErrCacheExpired.
func (s *Store[K, V]) Get(key K) (V, error) {
	var zero V
	if !s.enabled {
		return zero, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.misses++
		return zero, ErrCacheNotFound
	}
	if entry.IsExpired(s.now()) {
		delete(s.entries, key)
		s.misses++
		return zero, ErrCacheExpired
	}
	s.hits++
	return entry.Value, nil
}

// GetOrCompute returns the cached value for key or stores and returns compute().
// A disabled store always calls compute.
func (s *Store[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, err := s.Get(key); err == nil {
		return v
	}
	v := compute()
	_ = s.Set(key, v)
	return v
}

// Set stores value under key, evicting the oldest entry if the store is full.
func (s *Store[K, V]) Set(key K, value V) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[key] = newEntry(value, s.ttl, s.now())
	return nil
}

// Clear removes every entry.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

// Prune removes every entry whose key fails keep and returns how many were removed.
func (s *Store[K, V]) Prune(keep func(K) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.entries {
		if !keep(k) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns the hit and miss counts.
//
//nolint:nonamedreturns // Named returns distinguish the two counters.
func (s *Store[K, V]) Stats() (hits, misses uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

// TTL returns the per-entry lifetime.
func (s *Store[K, V]) TTL() time.Duration {
	return s.ttl
}

// evictOldestLocked drops the entry with the earliest CreatedAt. Must be called with mu held.
func (s *Store[K, V]) evictOldestLocked() {
	var (
		oldestKey K
		oldest    time.Time
		found     bool
	)
	for k, e := range s.entries {
		if !found || e.CreatedAt.Before(oldest) {
			oldestKey, oldest, found = k, e.CreatedAt, true
		}
	}
	if found {
		delete(s.entries, oldestKey)
	}
}
