package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache is the persistent artifact cache behind the CLI. Artifacts
// are grouped by graph fingerprint, one directory per graph with one
// file per rendered format:
//
//	<dir>/<fp[:2]>/<fp[2:]>/<format>.json
//
// The two-character shard keeps any single directory from accumulating
// every cached graph.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// artifactEntry is the on-disk record for one rendered artifact. Graph
// and Format repeat the key so a stale or misplaced file can be
// recognized without trusting its path.
type artifactEntry struct {
	Graph      string    `json:"graph"`
	Format     string    `json:"format"`
	Data       []byte    `json:"data"`
	RenderedAt time.Time `json:"rendered_at"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// Get retrieves an artifact. Corrupt, expired, or mismatched entries
// are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry artifactEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.Graph != key.Graph || entry.Format != key.Format {
		// The file does not describe the artifact its path promises.
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores an artifact under its graph's directory.
func (c *FileCache) Set(ctx context.Context, key Key, data []byte, ttl time.Duration) error {
	entry := artifactEntry{
		Graph:      key.Graph,
		Format:     key.Format,
		Data:       data,
		RenderedAt: time.Now(),
	}
	if ttl > 0 {
		entry.ExpiresAt = entry.RenderedAt.Add(ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Delete removes an artifact.
func (c *FileCache) Delete(ctx context.Context, key Key) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to its file. Graph fingerprints come from [Hash] and
// are always long hex strings; anything shorter is re-hashed so the
// shard split stays in bounds.
func (c *FileCache) path(key Key) string {
	fp := key.Graph
	if len(fp) <= 2 {
		fp = Hash([]byte(fp))
	}
	return filepath.Join(c.dir, fp[:2], fp[2:], key.Format+".json")
}

var _ Cache = (*FileCache)(nil)
