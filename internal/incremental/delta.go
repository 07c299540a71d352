// Package incremental provides the cross-run delta cache: per-file,
// per-analysis-kind partial results keyed by content hash, plus a dependency
// graph so invalidating one file cascades to its dependents.
package incremental

import (
	"log/slog"
	"sync"
)

// Kind names one analysis whose partial results are cached per file,
// e.g. "detect/name" or "rules".
type Kind string

// maxCascadeDepth bounds the invalidation traversal. Dependency data comes
// from the outside world and is not guaranteed acyclic.
const maxCascadeDepth = 64

// partialKey identifies one cached partial result.
type partialKey struct {
	path string
	kind Kind
}

// partialEntry is a stored partial result tied to the content hash that
// produced it.
type partialEntry struct {
	hash  uint64
	value any
}

// DeltaCache stores partial analysis results across runs and tracks the
// file dependency graph for cascade invalidation. All methods are safe for
// concurrent use.
type DeltaCache struct {
	mu       sync.Mutex
	partials map[partialKey]partialEntry
	lastSeen map[string]uint64
	graph    *depGraph
	dir      string // Persistence directory; empty disables persistence.
	logger   *slog.Logger
}

// New creates a delta cache. When dir is non-empty, the incremental index
// (last-seen hashes and the dependency graph) is loaded from it; a missing
// or corrupt index simply starts fresh.
func New(dir string, logger *slog.Logger) *DeltaCache {
	if logger == nil {
		logger = slog.Default()
	}

	c := &DeltaCache{
		partials: make(map[partialKey]partialEntry),
		lastSeen: make(map[string]uint64),
		graph:    newDepGraph(),
		dir:      dir,
		logger:   logger,
	}

	if dir != "" {
		c.loadIndex()
	}

	return c
}

// StorePartial records a partial result for (path, kind) computed from the
// given content hash, replacing any previous result.
func (c *DeltaCache) StorePartial(path string, kind Kind, hash uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partials[partialKey{path: path, kind: kind}] = partialEntry{hash: hash, value: value}
	c.lastSeen[path] = hash
}

// GetPartial returns the stored result for (path, kind) when the hash matches
// exactly. Any hash difference is a miss.
func (c *DeltaCache) GetPartial(path string, kind Kind, hash uint64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.partials[partialKey{path: path, kind: kind}]
	if !ok || ent.hash != hash {
		return nil, false
	}

	return ent.value, true
}

// AddDependency records that dependent imports (depends on) path, so
// invalidating path also invalidates dependent.
func (c *DeltaCache) AddDependency(path, dependent string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.graph.addEdge(path, dependent)
}

// Invalidate drops all partial results for path and cascades to its
// dependents via a breadth-first traversal bounded to maxCascadeDepth hops.
// Returns the set of invalidated paths, path included.
func (c *DeltaCache) Invalidate(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	affected := c.graph.reachable(path, maxCascadeDepth)

	for _, p := range affected {
		c.dropLocked(p)
	}

	return affected
}

// dropLocked removes all partials and the last-seen hash for one path.
func (c *DeltaCache) dropLocked(path string) {
	for key := range c.partials {
		if key.path == path {
			delete(c.partials, key)
		}
	}

	delete(c.lastSeen, path)
}

// LastSeen returns the last content hash recorded for path.
func (c *DeltaCache) LastSeen(path string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash, ok := c.lastSeen[path]

	return hash, ok
}
