package unionfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/pkg/alg/unionfind"
)

func TestForest_Singletons(t *testing.T) {
	t.Parallel()

	f := unionfind.New(5)

	assert.Equal(t, 5, f.Sets())
	assert.Equal(t, 5, f.Len())
	assert.False(t, f.Connected(0, 1))
	assert.Empty(t, f.Groups())
}

func TestForest_UnionFind(t *testing.T) {
	t.Parallel()

	f := unionfind.New(6)

	require.True(t, f.Union(0, 1))
	require.True(t, f.Union(1, 2))
	require.False(t, f.Union(0, 2), "redundant union must report false")

	assert.True(t, f.Connected(0, 2))
	assert.False(t, f.Connected(0, 3))
	assert.Equal(t, 4, f.Sets())
}

func TestForest_Groups_ArePartition(t *testing.T) {
	t.Parallel()

	f := unionfind.New(8)

	f.Union(0, 1)
	f.Union(2, 3)
	f.Union(3, 4)

	groups := f.Groups()
	require.Len(t, groups, 2)

	seen := make(map[int]bool)

	for _, g := range groups {
		for _, m := range g {
			require.False(t, seen[m], "element %d appears in two groups", m)

			seen[m] = true
		}
	}

	assert.ElementsMatch(t, []int{0, 1}, groups[0])
	assert.ElementsMatch(t, []int{2, 3, 4}, groups[1])
}

func TestForest_Groups_Idempotent(t *testing.T) {
	t.Parallel()

	f := unionfind.New(10)

	for i := 0; i < 9; i += 2 {
		f.Union(i, i+1)
	}

	first := f.Groups()
	second := f.Groups()

	assert.Equal(t, first, second)
}

func TestForest_LargeChain(t *testing.T) {
	t.Parallel()

	const n = 1000

	f := unionfind.New(n)

	for i := range n - 1 {
		f.Union(i, i+1)
	}

	assert.Equal(t, 1, f.Sets())
	assert.True(t, f.Connected(0, n-1))

	groups := f.Groups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], n)
}
