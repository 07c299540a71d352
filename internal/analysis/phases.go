package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/couplint/internal/detect"
	"github.com/Sumatoshi-tech/couplint/internal/incremental"
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/textutil"
)

// parseAll resolves every discovered file to a parsed unit through the
// content and AST caches, fanning out across the configured workers. Files
// that fail to read or parse are recorded and excluded downstream.
func (a *Analyzer) parseAll(ctx context.Context, files []string, run *runState) []*syntax.Unit {
	var (
		mu    sync.Mutex
		units []*syntax.Unit
	)

	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Workers)

	for _, path := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			unit := a.parseOne(ctx, path, run)
			if unit == nil {
				return nil
			}

			mu.Lock()
			units = append(units, unit)
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	// Downstream phases and the report depend on a stable unit order.
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	return units
}

// parseOne serves one file from the caches or parses it fresh.
func (a *Analyzer) parseOne(ctx context.Context, path string, run *runState) *syntax.Unit {
	content, hash, err := a.content.Get(path)
	if err != nil {
		run.addEntry(report.Entry{
			Phase: report.PhaseParse,
			File:  path,
			Cause: err.Error(),
		})

		return nil
	}

	// Binary payloads with a source-like extension produce garbage trees.
	if textutil.IsBinary(content) {
		run.addEntry(report.Entry{
			Phase: report.PhaseParse,
			File:  path,
			Cause: "binary content",
		})

		return nil
	}

	if unit, ok := a.asts.Get(ctx, path, hash); ok {
		return unit
	}

	unit, err := a.parser.Parse(ctx, path, content, hash)
	if err != nil {
		run.addEntry(report.Entry{
			Phase: report.PhaseParse,
			File:  path,
			Cause: err.Error(),
		})

		return nil
	}

	a.asts.Put(unit)

	return unit
}

// detectAll fans out one task per (unit, category) pair. Pairs whose
// results survive in the delta cache are served from it without touching
// the pool.
func (a *Analyzer) detectAll(ctx context.Context, units []*syntax.Unit, run *runState) {
	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Workers)

	for _, unit := range units {
		for _, cat := range detect.Categories() {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}

				a.detectOne(ctx, unit, cat, run)

				return nil
			})
		}
	}

	_ = g.Wait()
}

// detectOne runs one detector category over one unit. Pool timeouts,
// detector errors, and detector panics all degrade to report entries; a
// failed instance is discarded so its replacement starts clean.
func (a *Analyzer) detectOne(ctx context.Context, unit *syntax.Unit, cat detect.Category, run *runState) {
	kind := incremental.Kind("detect/" + string(cat))

	if value, ok := a.delta.GetPartial(unit.Path, kind, unit.Hash); ok {
		if cached, valid := value.([]report.Violation); valid {
			run.addViolations(cached)

			return
		}
	}

	inst, err := a.pool.Acquire(ctx, cat)
	if err != nil {
		run.addEntry(report.Entry{
			Phase:    report.PhaseDetect,
			File:     unit.Path,
			Detector: string(cat),
			Cause:    err.Error(),
		})

		return
	}

	violations, err := runDetector(inst, unit)
	if err != nil {
		a.pool.Discard(cat, inst)
		run.addEntry(report.Entry{
			Phase:    report.PhaseDetect,
			File:     unit.Path,
			Detector: string(cat),
			Cause:    err.Error(),
		})

		return
	}

	a.pool.Release(cat, inst)

	for i := range violations {
		if len(violations[i].Detectors) == 0 {
			violations[i].Detectors = []string{string(cat)}
		}
	}

	a.delta.StorePartial(unit.Path, kind, unit.Hash, violations)
	run.addViolations(violations)
}

// runDetector contains a detector execution, converting a panic into an
// error so one faulty detector cannot take down the run.
func runDetector(inst *detect.Instance, unit *syntax.Unit) (violations []report.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()

	return inst.Detect(unit)
}
