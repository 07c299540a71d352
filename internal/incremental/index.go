package incremental

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/couplint/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/couplint/pkg/persist"
)

// indexBasename is the on-disk name of the incremental index.
const indexBasename = "incremental-index"

// indexState is the persisted shape of the incremental index: last-seen
// hashes and the dependency graph. Partial results themselves are not
// persisted; they are cheap to recompute relative to their size.
type indexState struct {
	LastSeen   map[string]uint64   `json:"last_seen"`
	Dependents map[string][]string `json:"dependents"`
}

// indexCodec is the codec used for the persisted index.
func indexCodec() persist.Codec {
	return persist.NewJSONCodec()
}

// Save persists the incremental index with atomic write-then-rename.
// A no-op when the cache was created without a persistence directory.
func (c *DeltaCache) Save() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()

	state := indexState{
		LastSeen:   make(map[string]uint64, len(c.lastSeen)),
		Dependents: make(map[string][]string, len(c.graph.dependents)),
	}

	for path, hash := range c.lastSeen {
		state.LastSeen[path] = hash
	}

	for path, deps := range c.graph.dependents {
		state.Dependents[path] = mapx.CloneSlice(deps)
	}

	c.mu.Unlock()

	err := persist.SaveState(c.dir, indexBasename, indexCodec(), &state)
	if err != nil {
		return fmt.Errorf("save incremental index: %w", err)
	}

	return nil
}

// loadIndex restores the persisted index. Missing means a fresh start.
// A corrupt index is discarded and the run proceeds from scratch rather
// than failing.
func (c *DeltaCache) loadIndex() {
	var state indexState

	err := persist.LoadState(c.dir, indexBasename, indexCodec(), &state)
	if err != nil {
		if errors.Is(err, persist.ErrCorruptState) {
			c.logger.Warn("discarding corrupt incremental index", "dir", c.dir)
			_ = persist.RemoveState(c.dir, indexBasename, indexCodec())
		}

		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if state.LastSeen != nil {
		c.lastSeen = state.LastSeen
	}

	for path, deps := range state.Dependents {
		for _, dep := range deps {
			c.graph.addEdge(path, dep)
		}
	}
}
