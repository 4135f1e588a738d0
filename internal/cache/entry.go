package cache

import (
	"time"
)

// Entry is a single cached value with TTL metadata.
type Entry[V any] struct {
	// Value is the cached value.
	Value V

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time

	// TTL is the lifetime the entry was created with.
	TTL time.Duration
}

// newEntry creates an entry stamped at now.
func newEntry[V any](value V, ttl time.Duration, now time.Time) *Entry[V] {
	return &Entry[V]{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
	}
}

// IsExpired reports whether the entry has expired as of now.
func (e *Entry[V]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
