// Package mapx provides generic map and slice operations shared across the
// analyzer: sorted-key extraction, shallow cloning, and deduplication.
package mapx

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in sorted order.
// Returns nil for a nil map.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	if m == nil {
		return nil
	}

	keys := make([]K, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
