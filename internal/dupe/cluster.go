package dupe

import (
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/unionfind"
)

// Clustering defaults.
const (
	// DefaultMinBlockTokens excludes blocks too small to match meaningfully.
	DefaultMinBlockTokens = 20

	// DefaultThreshold is the Jaccard similarity at which two blocks are
	// considered clones of each other.
	DefaultThreshold = 0.7
)

// Config tunes duplication clustering.
type Config struct {
	MinBlockTokens int
	Threshold      float64
}

// withDefaults fills unset clustering parameters.
func (c Config) withDefaults() Config {
	if c.MinBlockTokens <= 0 {
		c.MinBlockTokens = DefaultMinBlockTokens
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = DefaultThreshold
	}

	return c
}

// Engine clusters near-duplicate code blocks. Union-find over similarity
// edges makes the clusters a partition of the block set: no block can land
// in two clusters, and rerunning on unchanged input yields the same answer.
type Engine struct {
	cfg Config
}

// NewEngine creates a clustering engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// edge records one similar pair for cluster scoring.
type edge struct {
	a, b       int
	similarity float64
}

// Cluster extracts blocks from the parsed units and groups them into
// duplicate clusters.
func (e *Engine) Cluster(units []*syntax.Unit) report.Duplication {
	blocks := extractBlocks(units, e.cfg.MinBlockTokens)
	if len(blocks) == 0 {
		return report.Duplication{MECEScore: 1.0}
	}

	forest := unionfind.New(len(blocks))

	var edges []edge

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			sim := jaccard(blocks[i].tokens, blocks[j].tokens)
			if sim < e.cfg.Threshold {
				continue
			}

			forest.Union(i, j)
			edges = append(edges, edge{a: i, b: j, similarity: sim})
		}
	}

	groups := forest.Groups()
	clusters := make([]report.Cluster, 0, len(groups))
	duplicated := 0

	for _, members := range groups {
		refs := make([]report.BlockRef, 0, len(members))
		for _, idx := range members {
			refs = append(refs, blocks[idx].ref)
		}

		clusters = append(clusters, report.Cluster{
			Members:    refs,
			Similarity: clusterSimilarity(forest, edges, members[0]),
		})

		duplicated += len(members)
	}

	return report.Duplication{
		MECEScore: meceScore(duplicated, len(blocks)),
		Clusters:  clusters,
	}
}

// clusterSimilarity averages the similarity edges inside one cluster.
func clusterSimilarity(forest *unionfind.Forest, edges []edge, member int) float64 {
	root := forest.Find(member)
	sum := 0.0
	count := 0

	for _, e := range edges {
		if forest.Find(e.a) != root {
			continue
		}

		sum += e.similarity
		count++
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}

// meceScore is the share of blocks not caught in any cluster, clamped
// to [0,1]. An empty block set is perfectly duplication-free.
func meceScore(duplicated, total int) float64 {
	if total == 0 {
		return 1.0
	}

	score := 1.0 - float64(duplicated)/float64(total)
	if score < 0 {
		return 0
	}

	if score > 1 {
		return 1
	}

	return score
}
