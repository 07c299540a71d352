package incremental

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/couplint/internal/cache"
	"github.com/Sumatoshi-tech/couplint/pkg/textutil"
)

// Change summarizes a file edit for cache-key purposes. The line counts are
// a coarse measure, not a semantic diff.
type Change struct {
	Path         string
	OldHash      uint64
	NewHash      uint64
	LinesAdded   int
	LinesRemoved int
}

// TrackChange hashes the new content, records it as the last-seen hash for
// path, and computes coarse added/removed line counts with a line-mode diff.
func (c *DeltaCache) TrackChange(path string, oldContent, newContent []byte) Change {
	change := Change{
		Path:    path,
		OldHash: cache.HashBytes(oldContent),
		NewHash: cache.HashBytes(newContent),
	}

	if change.OldHash != change.NewHash {
		change.LinesAdded, change.LinesRemoved = countLineChanges(string(oldContent), string(newContent))
	}

	c.mu.Lock()
	c.lastSeen[path] = change.NewHash
	c.mu.Unlock()

	return change
}

// countLineChanges runs a line-mode diff and counts inserted and deleted lines.
func countLineChanges(oldText, newText string) (added, removed int) {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += textutil.CountLines([]byte(d.Text))
		case diffmatchpatch.DiffDelete:
			removed += textutil.CountLines([]byte(d.Text))
		case diffmatchpatch.DiffEqual:
		}
	}

	return added, removed
}
