// Package cache provides content-addressed caching for rendered graph
// artifacts. Graphs are keyed by a hash of their serialized form, so any
// change to the graph (nodes, edges, storage order) produces a new key and
// unchanged graphs skip re-rendering entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid. Artifacts are
// content-addressed, so the TTL only bounds disk usage, not staleness.
const TTLArtifact = 30 * 24 * time.Hour

// Key addresses one rendered artifact: the fingerprint of the graph it
// was rendered from plus the artifact format.
type Key struct {
	Graph  string // content hash of the serialized graph, see [Hash]
	Format string // artifact format ("text", "dot", "svg", ...)
}

// ArtifactKey builds the key for one rendered artifact of one graph.
func ArtifactKey(graphHash, format string) Key {
	return Key{Graph: graphHash, Format: format}
}

// Hash fingerprints a serialized graph. The full SHA-256 hex digest is
// used unshortened; artifact keys derive from it, so truncating would
// trade disk for silent cross-graph collisions.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cache is the artifact store the pipeline renders through.
// Implementations: FileCache (persistent, CLI) and NullCache (disabled).
type Cache interface {
	// Get retrieves an artifact. The second return reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key Key) ([]byte, bool, error)

	// Set stores an artifact with a time-to-live. A non-positive ttl
	// means the entry never expires.
	Set(ctx context.Context, key Key, data []byte, ttl time.Duration) error

	// Delete removes an artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// Close releases any resources held by the cache.
	Close() error
}

// NullCache disables caching: every get misses and every set is
// discarded. The pipeline falls back to it when no cache is configured.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the artifact.
func (c *NullCache) Set(ctx context.Context, key Key, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key Key) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
