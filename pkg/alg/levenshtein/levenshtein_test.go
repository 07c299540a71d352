package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/couplint/pkg/alg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"userCount", "userCounts", 1},
		{"userCount", "userCount", 0},
		{"flaw", "lawn", 2},
		{"über", "uber", 1},
	}

	ctx := &levenshtein.Context{}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ctx.Distance(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestDistance_ContextReuse(t *testing.T) {
	t.Parallel()

	ctx := &levenshtein.Context{}

	// Reusing one context across calls of different lengths must not leak
	// state between computations.
	assert.Equal(t, 3, ctx.Distance("kitten", "sitting"))
	assert.Equal(t, 1, ctx.Distance("ab", "b"))
	assert.Equal(t, 3, ctx.Distance("kitten", "sitting"))
}
