package incremental_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/incremental"
)

const kindDetect = incremental.Kind("detect/name")

func TestStoreGetPartial_RoundTrip(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	c.StorePartial("a.go", kindDetect, 100, []string{"v1"})

	got, ok := c.GetPartial("a.go", kindDetect, 100)
	require.True(t, ok)
	assert.Equal(t, []string{"v1"}, got)

	// A changed hash is always a miss.
	_, ok = c.GetPartial("a.go", kindDetect, 101)
	assert.False(t, ok)

	// So is an unknown kind.
	_, ok = c.GetPartial("a.go", incremental.Kind("rules"), 100)
	assert.False(t, ok)
}

func TestInvalidate_Cascades(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	c.StorePartial("core.go", kindDetect, 1, "core")
	c.StorePartial("user.go", kindDetect, 2, "user")
	c.StorePartial("other.go", kindDetect, 3, "other")
	c.AddDependency("core.go", "user.go")

	affected := c.Invalidate("core.go")
	assert.ElementsMatch(t, []string{"core.go", "user.go"}, affected)

	_, ok := c.GetPartial("core.go", kindDetect, 1)
	assert.False(t, ok)

	_, ok = c.GetPartial("user.go", kindDetect, 2)
	assert.False(t, ok)

	// Unrelated entries survive.
	_, ok = c.GetPartial("other.go", kindDetect, 3)
	assert.True(t, ok)
}

func TestInvalidate_CyclicGraph_Terminates(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	c.AddDependency("a.go", "b.go")
	c.AddDependency("b.go", "a.go")

	affected := c.Invalidate("a.go")
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, affected)
}

func TestInvalidate_DepthBounded(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	// A chain of 100 hops; the 64-hop bound must cut the cascade off.
	for i := range 100 {
		c.AddDependency(fmt.Sprintf("f%d.go", i), fmt.Sprintf("f%d.go", i+1))
	}

	affected := c.Invalidate("f0.go")
	assert.Len(t, affected, 65, "start plus 64 hops")
}

func TestTrackChange_CountsLines(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	oldContent := []byte("line1\nline2\nline3\n")
	newContent := []byte("line1\nline2 changed\nline3\nline4\n")

	change := c.TrackChange("a.go", oldContent, newContent)

	assert.NotEqual(t, change.OldHash, change.NewHash)
	assert.Equal(t, 2, change.LinesAdded)
	assert.Equal(t, 1, change.LinesRemoved)

	hash, ok := c.LastSeen("a.go")
	require.True(t, ok)
	assert.Equal(t, change.NewHash, hash)
}

func TestTrackChange_NoChange(t *testing.T) {
	t.Parallel()

	c := incremental.New("", nil)

	content := []byte("same\n")
	change := c.TrackChange("a.go", content, content)

	assert.Equal(t, change.OldHash, change.NewHash)
	assert.Zero(t, change.LinesAdded)
	assert.Zero(t, change.LinesRemoved)
}

func TestIndex_PersistAndReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	c := incremental.New(dir, nil)
	c.StorePartial("core.go", kindDetect, 11, "x")
	c.AddDependency("core.go", "user.go")
	require.NoError(t, c.Save())

	// A fresh cache sees the last-seen hash and the dependency graph,
	// but not the partial values themselves.
	c2 := incremental.New(dir, nil)

	hash, ok := c2.LastSeen("core.go")
	require.True(t, ok)
	assert.Equal(t, uint64(11), hash)

	affected := c2.Invalidate("core.go")
	assert.ElementsMatch(t, []string{"core.go", "user.go"}, affected)

	_, ok = c2.GetPartial("core.go", kindDetect, 11)
	assert.False(t, ok)
}
