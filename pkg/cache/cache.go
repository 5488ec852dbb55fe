// Package cache provides byte-level caching for normalized photos and
// short-lived records such as upload tokens.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process map with TTLs (tests, single instance)
//   - [FileCache]: one JSON file per entry (CLI runs)
//   - [RedisCache]: shared cache for server deployments
//
// Keys are produced by a [Keyer] so every backend sees the same layout.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// PhotoTTL bounds how long a normalized photo is reused.
	PhotoTTL = 24 * time.Hour

	// UploadTTL is how long an issued upload token stays valid.
	UploadTTL = 10 * time.Minute
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero stores the value without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache disables caching, so every photo is normalized again on each
// build. It backs render --no-cache and is the Normalizer's default.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
