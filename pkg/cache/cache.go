// Package cache stores rendered collage artifacts and photo thumbnails.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry file per key under a directory (CLI)
//   - [RedisCache]: shared storage for multi-instance servers
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] from the inputs that determine the output
// bytes, so equal compositions hit the same entry regardless of which
// session produced them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache backs the "none" backend and --no-cache: every lookup misses and
// every collage is rendered fresh.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
