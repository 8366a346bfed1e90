// Package cache stores placement documents and rendered artifacts between
// runs.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [NullCache]: stores nothing, for --no-cache and tests
//   - [RedisCache]: a shared redis instance
//   - [MongoCache]: one MongoDB document per key, expired by a TTL index
//
// Use [Open] to build a backend from a [Config], which is what the CLI does
// with the values of its config file.
//
// # Keys
//
// A [Keyer] turns content hashes into cache keys. [DefaultKeyer] hashes the
// options into the key, so that changing the scale or enabling obstacles
// never returns a stale artifact. [ScopedKeyer] prefixes every key, which
// lets several tenants share one redis or mongo backend.
//
// # Failures
//
// Backends wrap transient failures with [Retryable]; [RetryWithBackoff]
// retries only those. Callers treat every cache error as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's connections.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// PlacementKey identifies the placement document of a scene.
	PlacementKey(sceneHash string, opts PlacementKeyOpts) string
	// ArtifactKey identifies one rendered output of a placement document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// PlacementKeyOpts holds the inputs besides the scene that change a
// placement result.
type PlacementKeyOpts struct {
	// Version is the placement engine version; bumping it invalidates
	// every cached document.
	Version string `json:"version,omitempty"`
}

// ArtifactKeyOpts holds the render options of an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Scale     float64 `json:"scale,omitempty"`
	Geometry  bool    `json:"geometry,omitempty"`
	Obstacles bool    `json:"obstacles,omitempty"`
}

// DefaultKeyer builds keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey implements [Keyer].
func (DefaultKeyer) PlacementKey(sceneHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", sceneHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

var _ Keyer = DefaultKeyer{}
