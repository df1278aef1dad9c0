// Package cache stores composed scenes and rendered artifacts.
//
// Keys are content hashes: a [Keyer] derives them from the model bytes
// and the options that influence the output, so a changed model or a
// changed theme never reads a stale entry. Three backends are provided:
//
//   - [NullCache] disables caching
//   - [FileCache] stores entries under a directory (CLI default)
//   - [RedisCache] shares entries between API replicas
//
// All implementations are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
