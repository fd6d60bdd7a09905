// Package cache stores computed layout documents so repeated reads of an
// unchanged family tree skip recomputation.
//
// # Backends
//
//   - [NullCache] never stores anything; used when caching is disabled.
//   - [FileCache] keeps one JSON file per entry under a directory, for CLI use.
//   - [RedisCache] shares entries between processes through Redis.
//
// # Keys
//
// Keys are derived by a [Keyer] from the content hash of a graph view plus
// the options that shaped the result, so a changed tree or changed layout
// settings never hit a stale entry. [ScopedKeyer] prefixes every key, which
// isolates several trees sharing one backend.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of entries written without an explicit TTL.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss
	// (hit=false) with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero or less means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
