// Package analysis orchestrates the full pipeline: discovery, parsing,
// detection, aggregation, duplication clustering, compliance scoring, and
// report assembly, as a strict sequence of phases with fan-out inside the
// parse and detect phases only.
package analysis

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/couplint/internal/cache"
	"github.com/Sumatoshi-tech/couplint/internal/detect"
	"github.com/Sumatoshi-tech/couplint/internal/dupe"
	"github.com/Sumatoshi-tech/couplint/internal/incremental"
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/rules"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/mapx"
)

// DefaultContentCacheBytes bounds the in-memory file content cache.
const DefaultContentCacheBytes = 64 << 20

// DefaultASTCacheEntries bounds the in-memory parsed unit cache.
const DefaultASTCacheEntries = 4096

// Config configures one Analyzer.
type Config struct {
	// Root is the directory to analyze. It must exist.
	Root string

	// Include and Exclude are glob filters applied to discovered files.
	// Empty Include admits every supported file.
	Include []string
	Exclude []string

	// Workers bounds fan-out in the parse and detect phases. Zero means
	// one worker per CPU.
	Workers int

	// CacheDir, when set, enables the on-disk AST cache and incremental
	// index under it.
	CacheDir string

	ContentCacheBytes int64
	ASTCacheEntries   int

	Pool  detect.PoolConfig
	Dupe  dupe.Config
	Rules rules.Config

	Logger *slog.Logger
}

// withDefaults fills unset configuration.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	if c.ContentCacheBytes <= 0 {
		c.ContentCacheBytes = DefaultContentCacheBytes
	}

	if c.ASTCacheEntries <= 0 {
		c.ASTCacheEntries = DefaultASTCacheEntries
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return c
}

// Analyzer owns the caches, the detector pool, and the scoring engines for
// repeated runs over one root.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger

	parser  *syntax.Parser
	content *cache.ContentCache
	asts    *cache.ASTCache
	delta   *incremental.DeltaCache
	pool    *detect.Pool
	dupes   *dupe.Engine
	rules   *rules.Engine
}

// New builds an Analyzer. The on-disk caches activate only when CacheDir
// is configured.
func New(cfg Config) (*Analyzer, error) {
	cfg = cfg.withDefaults()

	pool, err := detect.NewPool(cfg.Pool)
	if err != nil {
		return nil, err
	}

	var disk *cache.DiskStore
	if cfg.CacheDir != "" {
		disk = cache.NewDiskStore(cfg.CacheDir)
	}

	return &Analyzer{
		cfg:     cfg,
		logger:  cfg.Logger,
		parser:  syntax.NewParser(),
		content: cache.NewContentCache(cfg.ContentCacheBytes),
		asts:    cache.NewASTCache(cfg.ASTCacheEntries, disk, cfg.Logger),
		delta:   incremental.New(cfg.CacheDir, cfg.Logger),
		pool:    pool,
		dupes:   dupe.NewEngine(cfg.Dupe),
		rules:   rules.NewEngine(cfg.Rules),
	}, nil
}

// runState accumulates results across one run's concurrent tasks.
type runState struct {
	mu         sync.Mutex
	entries    []report.Entry
	violations []report.Violation
}

func (r *runState) addEntry(entry report.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *runState) addViolations(violations []report.Violation) {
	if len(violations) == 0 {
		return
	}

	r.mu.Lock()
	r.violations = append(r.violations, violations...)
	r.mu.Unlock()
}

// Analyze runs the full pipeline. It fails outright only when the root is
// unusable or the context is canceled; every other failure becomes an
// entry in the report's error list.
func (a *Analyzer) Analyze(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	run := &runState{}

	files, err := a.discover(run)
	if err != nil {
		return nil, fatal(report.PhaseDiscover, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseParse, err)
	}

	units := a.parseAll(ctx, files, run)
	a.linkImports(units)

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseDetect, err)
	}

	a.detectAll(ctx, units, run)

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseAggregate, err)
	}

	violations := aggregate(run.violations)

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseDuplication, err)
	}

	duplication := a.dupes.Cluster(units)

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseCompliance, err)
	}

	compliance, ruleViolations := a.rules.Evaluate(units)
	violations = append(violations, ruleViolations...)

	if err := ctx.Err(); err != nil {
		return nil, fatal(report.PhaseReport, err)
	}

	sortViolations(violations)

	if err := a.delta.Save(); err != nil {
		run.addEntry(report.Entry{
			Phase: report.PhaseReport,
			Cause: err.Error(),
		})
	}

	rep := &report.Report{
		Violations:  violations,
		Duplication: duplication,
		Compliance:  compliance,
		Metrics: report.Metrics{
			FilesAnalyzed: len(units),
			DurationMS:    time.Since(start).Milliseconds(),
			CacheHitRate:  a.cacheHitRate(),
		},
		Errors: run.entries,
	}

	a.logger.Info("analysis complete",
		"files", len(units),
		"violations", len(violations),
		"errors", len(run.entries),
		"duration", time.Since(start))

	return rep, nil
}

// Invalidate marks a path stale in the incremental cache and returns every
// path whose cached results were dropped with it. File watchers call this
// between runs.
func (a *Analyzer) Invalidate(path string) []string {
	return a.delta.Invalidate(path)
}

// cacheHitRate combines the content and AST cache hit rates into one
// figure for the report.
func (a *Analyzer) cacheHitRate() float64 {
	content := a.content.Stats()
	asts := a.asts.Stats()

	total := content.Hits + content.Misses + asts.Hits + asts.Misses
	if total == 0 {
		return 0
	}

	return float64(content.Hits+asts.Hits) / float64(total)
}

// aggregate deduplicates violations on (kind, file, line), unioning the
// reporting detectors and keeping the first message.
func aggregate(violations []report.Violation) []report.Violation {
	type key struct {
		kind string
		file string
		line uint32
	}

	index := make(map[key]int, len(violations))

	var out []report.Violation

	for _, v := range violations {
		k := key{kind: v.Kind, file: v.File, line: v.Line}

		at, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, v)

			continue
		}

		out[at].Detectors = unionDetectors(out[at].Detectors, v.Detectors)
	}

	return out
}

// unionDetectors merges two detector name lists, preserving first-seen
// order.
func unionDetectors(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)

	return mapx.Unique(merged)
}

// sortViolations orders the final list by file, line, then kind, so runs
// over unchanged input produce identical reports.
func sortViolations(violations []report.Violation) {
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]

		if a.File != b.File {
			return a.File < b.File
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Kind < b.Kind
	})
}
