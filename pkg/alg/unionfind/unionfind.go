// Package unionfind provides a disjoint-set forest with union by rank and
// path compression.
//
// The structure partitions the integers [0, n) into non-overlapping sets.
// Because every element has exactly one root, groups produced by [Forest.Groups]
// are mutually exclusive by construction.
package unionfind

// Forest is a disjoint-set forest over the elements [0, n).
// The zero value is not usable; create one with [New].
type Forest struct {
	parent []int
	rank   []byte
	sets   int
}

// New creates a forest of n singleton sets.
func New(n int) *Forest {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	return &Forest{
		parent: parent,
		rank:   make([]byte, n),
		sets:   n,
	}
}

// Find returns the canonical representative of x's set,
// compressing the path along the way.
func (f *Forest) Find(x int) int {
	root := x
	for f.parent[root] != root {
		root = f.parent[root]
	}

	// Path compression: point every node on the walk directly at the root.
	for f.parent[x] != root {
		f.parent[x], x = root, f.parent[x]
	}

	return root
}

// Union merges the sets containing x and y.
// Reports whether the two were in different sets.
func (f *Forest) Union(x, y int) bool {
	rx, ry := f.Find(x), f.Find(y)
	if rx == ry {
		return false
	}

	if f.rank[rx] < f.rank[ry] {
		rx, ry = ry, rx
	}

	f.parent[ry] = rx

	if f.rank[rx] == f.rank[ry] {
		f.rank[rx]++
	}

	f.sets--

	return true
}

// Connected reports whether x and y are in the same set.
func (f *Forest) Connected(x, y int) bool {
	return f.Find(x) == f.Find(y)
}

// Sets returns the current number of disjoint sets.
func (f *Forest) Sets() int {
	return f.sets
}

// Len returns the number of elements in the forest.
func (f *Forest) Len() int {
	return len(f.parent)
}

// Groups returns the members of every set with more than one element,
// each group ordered by element index. Singleton sets are omitted.
func (f *Forest) Groups() [][]int {
	members := make(map[int][]int)

	for i := range f.parent {
		root := f.Find(i)
		members[root] = append(members[root], i)
	}

	groups := make([][]int, 0, len(members))

	for i := range f.parent {
		group, ok := members[f.Find(i)]
		if !ok || len(group) < 2 {
			continue
		}

		// Emit each group once, when its first member is reached.
		if group[0] == i {
			groups = append(groups, group)
		}
	}

	return groups
}
