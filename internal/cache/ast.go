package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/lru"
	"github.com/Sumatoshi-tech/couplint/pkg/persist"
)

// DefaultASTCacheEntries is the default entry-count bound for parsed trees.
const DefaultASTCacheEntries = 1024

// ASTCache is an entry-count-bounded cache of parsed units keyed by content
// hash. A lookup with a hash that does not match the stored unit is a miss,
// not an error: the stale entry is evicted and the caller reparses.
//
// When constructed with a disk store, misses fall through to persisted
// entries and fresh parses are written back, so unchanged files skip
// parsing entirely on the next run.
type ASTCache struct {
	lru    *lru.Cache[uint64, *syntax.Unit]
	disk   *DiskStore
	logger *slog.Logger
}

// NewASTCache creates an AST cache bounded to maxEntries parsed units.
// disk may be nil for a purely in-memory cache.
func NewASTCache(maxEntries int, disk *DiskStore, logger *slog.Logger) *ASTCache {
	if maxEntries <= 0 {
		maxEntries = DefaultASTCacheEntries
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ASTCache{
		lru:    lru.New(lru.WithMaxEntries[uint64, *syntax.Unit](maxEntries)),
		disk:   disk,
		logger: logger,
	}
}

// Get returns the cached unit for the given content hash, or (nil, false) on
// a miss. A stored unit whose hash no longer matches is evicted and reported
// as a miss. Corrupted disk entries are dropped and reported as misses so
// the caller recomputes instead of failing.
//
// Entries are shared across byte-identical files; hits are stamped with the
// requesting path so each file's results stay attributed to that file.
func (c *ASTCache) Get(ctx context.Context, path string, hash uint64) (*syntax.Unit, bool) {
	if unit, ok := c.lru.Get(hash); ok {
		if unit.Valid(hash) {
			return unitForPath(unit, path), true
		}

		c.lru.Remove(hash)
	}

	if c.disk == nil {
		return nil, false
	}

	unit, err := c.disk.Load(ctx, hash)
	if err != nil {
		if errors.Is(err, persist.ErrCorruptState) {
			c.logger.Warn("dropping corrupt ast cache entry", "path", path, "hash", hash)
			c.disk.Remove(hash)
		}

		return nil, false
	}

	if !unit.Valid(hash) {
		c.disk.Remove(hash)

		return nil, false
	}

	c.lru.Put(hash, unit)

	return unitForPath(unit, path), true
}

// unitForPath returns the unit as seen from path. When a hash-keyed entry
// was parsed under a different file name, a shallow copy carrying the
// requesting path is returned; the tree itself is shared and read-only.
func unitForPath(unit *syntax.Unit, path string) *syntax.Unit {
	if unit.Path == path {
		return unit
	}

	stamped := *unit
	stamped.Path = path

	return &stamped
}

// Put stores a freshly parsed unit under its content hash and, when a disk
// store is configured, persists it for the next run. Persistence failures
// are logged and ignored: the disk layer is an optimization, never a
// correctness dependency.
func (c *ASTCache) Put(unit *syntax.Unit) {
	if unit == nil {
		return
	}

	c.lru.Put(unit.Hash, unit)

	if c.disk == nil {
		return
	}

	err := c.disk.Store(unit)
	if err != nil {
		c.logger.Warn("persisting ast cache entry failed", "path", unit.Path, "error", err)
	}
}

// Stats returns the in-memory layer's statistics.
func (c *ASTCache) Stats() lru.Stats {
	return c.lru.Stats()
}
