// Package cache provides the caching layer shared by the pipeline, the CLI,
// and the HTTP API.
//
// A Cache stores opaque byte payloads under string keys with a per-entry
// TTL. Keys are produced by a Keyer so every caller derives them the same
// way; payloads are whatever the caller serialized (laid-out flows, rendered
// artifacts).
//
// Three implementations ship with the package:
//   - FileCache: per-user on-disk cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disables caching entirely
package cache

import (
	"context"
	"time"
)

// Default TTLs per payload category. A TTL of 0 means the entry never
// expires.
const (
	// TTLFlow covers raw flow documents mirrored from a store.
	TTLFlow = 15 * time.Minute

	// TTLLayout covers laid-out node positions. Layout is deterministic for
	// a given input, so entries only go stale when the defaults change.
	TTLLayout = 24 * time.Hour

	// TTLArtifact covers rendered SVG/PNG artifacts.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-payload cache with TTL-based expiry.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures, never for absence. Expired
// entries count as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
