package mapx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	t.Run("nil_returns_nil", func(t *testing.T) {
		t.Parallel()

		got := SortedKeys[int, any](nil)
		assert.Nil(t, got)
	})

	t.Run("empty_returns_empty", func(t *testing.T) {
		t.Parallel()

		got := SortedKeys(map[int]string{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("int_keys_sorted", func(t *testing.T) {
		t.Parallel()

		m := map[int]string{3: "c", 1: "a", 2: "b"}
		got := SortedKeys(m)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("string_keys_sorted", func(t *testing.T) {
		t.Parallel()

		m := map[string]int{"banana": 2, "apple": 1, "cherry": 3}
		got := SortedKeys(m)
		assert.Equal(t, []string{"apple", "banana", "cherry"}, got)
	})
}
