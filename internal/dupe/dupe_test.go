package dupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/dupe"
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

const twinA = `package a

func process(values []int) int {
	total := 0
	for _, v := range values {
		if v > 10 {
			total += v * 2
		} else {
			total -= v
		}
	}
	return total
}
`

// twinB is process with every variable renamed.
const twinB = `package b

func accumulate(items []int) int {
	sum := 0
	for _, item := range items {
		if item > 10 {
			sum += item * 2
		} else {
			sum -= item
		}
	}
	return sum
}
`

const unrelated = `package c

func describe(name string) string {
	if name == "" {
		return "unknown"
	}
	out := "user:" + name
	for i := 0; i < 3; i++ {
		out = out + "!"
	}
	return out
}
`

func parseUnits(t *testing.T, sources ...string) []*syntax.Unit {
	t.Helper()

	parser := syntax.NewParser()
	units := make([]*syntax.Unit, 0, len(sources))

	for i, src := range sources {
		unit, err := parser.Parse(context.Background(), fmt.Sprintf("file%d.go", i), []byte(src), uint64(i+1))
		require.NoError(t, err)

		units = append(units, unit)
	}

	return units
}

func TestCluster_RenamedTwinsLandTogether(t *testing.T) {
	t.Parallel()

	units := parseUnits(t, twinA, twinB, unrelated)

	result := dupe.NewEngine(dupe.Config{}).Cluster(units)
	require.Len(t, result.Clusters, 1)

	cluster := result.Clusters[0]
	require.Len(t, cluster.Members, 2)
	assert.GreaterOrEqual(t, cluster.Similarity, dupe.DefaultThreshold)
	assert.Equal(t, "process", cluster.Members[0].Function)
	assert.Equal(t, "accumulate", cluster.Members[1].Function)

	// Three blocks, two duplicated.
	assert.InDelta(t, 1.0/3.0, result.MECEScore, 1e-9)
}

func TestCluster_EmptyInputScoresPerfect(t *testing.T) {
	t.Parallel()

	result := dupe.NewEngine(dupe.Config{}).Cluster(nil)
	assert.Equal(t, 1.0, result.MECEScore)
	assert.Empty(t, result.Clusters)
}

func TestCluster_SmallBlocksExcluded(t *testing.T) {
	t.Parallel()

	units := parseUnits(t,
		"package a\n\nfunc a() int { return 1 }\n",
		"package b\n\nfunc b() int { return 1 }\n",
	)

	result := dupe.NewEngine(dupe.Config{}).Cluster(units)
	assert.Empty(t, result.Clusters)
	assert.Equal(t, 1.0, result.MECEScore)
}

func TestCluster_DissimilarBlocksStayApart(t *testing.T) {
	t.Parallel()

	units := parseUnits(t, twinA, unrelated)

	result := dupe.NewEngine(dupe.Config{}).Cluster(units)
	assert.Empty(t, result.Clusters)
	assert.Equal(t, 1.0, result.MECEScore)
}

func TestCluster_PartitionAndIdempotence(t *testing.T) {
	t.Parallel()

	units := parseUnits(t, twinA, twinB, twinA, unrelated)
	engine := dupe.NewEngine(dupe.Config{})

	first := engine.Cluster(units)
	second := engine.Cluster(units)
	assert.Equal(t, first, second)

	seen := make(map[report.BlockRef]bool)

	for _, cluster := range first.Clusters {
		for _, member := range cluster.Members {
			assert.False(t, seen[member], "block %v appears in two clusters", member)
			seen[member] = true
		}
	}
}
