// Package cache provides the bounded in-memory file content cache and the
// content-hash-keyed AST cache, with an optional on-disk layer for parsed
// trees that survives across runs.
package cache

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/Sumatoshi-tech/couplint/pkg/alg/lru"
)

// DefaultContentCacheBytes is the default byte budget for raw file contents (64 MB).
const DefaultContentCacheBytes = 64 * 1024 * 1024

// contentEntry holds cached file bytes plus the metadata used to revalidate them.
type contentEntry struct {
	data    []byte
	hash    uint64
	size    int64
	modUnix int64
}

// ContentCache is a byte-size-bounded LRU cache of raw file contents keyed
// by path. Entries are revalidated against file size and mtime on every Get;
// a changed file is re-read and the stale entry replaced.
type ContentCache struct {
	lru *lru.Cache[string, contentEntry]
}

// NewContentCache creates a content cache with the given byte budget.
// Non-positive budgets fall back to DefaultContentCacheBytes.
func NewContentCache(maxBytes int64) *ContentCache {
	if maxBytes <= 0 {
		maxBytes = DefaultContentCacheBytes
	}

	return &ContentCache{
		lru: lru.New(lru.WithMaxBytes[string, contentEntry](maxBytes, func(e contentEntry) int64 {
			return int64(len(e.data))
		})),
	}
}

// Get returns the file's content and its xxhash64 content hash, reading from
// disk on a miss or when the cached entry is stale.
func (c *ContentCache) Get(path string) ([]byte, uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}

	if ent, ok := c.lru.Get(path); ok {
		if ent.size == info.Size() && ent.modUnix == info.ModTime().UnixNano() {
			return ent.data, ent.hash, nil
		}

		// Stale: the file changed underneath us. Treat as a miss.
		c.lru.Remove(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	hash := xxhash.Sum64(data)

	c.lru.Put(path, contentEntry{
		data:    data,
		hash:    hash,
		size:    info.Size(),
		modUnix: info.ModTime().UnixNano(),
	})

	return data, hash, nil
}

// Stats returns the underlying cache statistics.
func (c *ContentCache) Stats() lru.Stats {
	return c.lru.Stats()
}

// HashBytes returns the content hash used throughout the caches.
func HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
