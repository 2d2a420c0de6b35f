// Package cache provides a small in-process cache used to memoise views.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Purge drops every entry
	Purge()

	// CleanExpired removes expired entries and returns how many were removed
	CleanExpired() int

	// Size returns the current number of items in the cache
	Size() int

	// Stats returns hit and miss counters
	Stats() (hits, misses uint64)
}

var _ Cache[int] = (*LRUCache[int])(nil)
