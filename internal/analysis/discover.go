package analysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// discover walks the root collecting supported source files that pass the
// include/exclude filters. An unreadable root is the one fatal condition of
// the whole pipeline; unreadable files below it are recorded and skipped.
func (a *Analyzer) discover(run *runState) ([]string, error) {
	info, err := os.Stat(a.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root inaccessible: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", a.cfg.Root)
	}

	var files []string

	walkErr := filepath.WalkDir(a.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			run.addEntry(report.Entry{
				Phase: report.PhaseDiscover,
				File:  path,
				Cause: err.Error(),
			})

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path != a.cfg.Root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}

			return nil
		}

		if !syntax.IsSupported(path) {
			return nil
		}

		if !a.matchesFilters(path) {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", a.cfg.Root, walkErr)
	}

	a.logger.Debug("discovery complete", "root", a.cfg.Root, "files", len(files))

	return files, nil
}

// matchesFilters applies the include globs (any must match when present)
// and the exclude globs (none may match). Patterns are matched against the
// base name and the root-relative path.
func (a *Analyzer) matchesFilters(path string) bool {
	rel, err := filepath.Rel(a.cfg.Root, path)
	if err != nil {
		rel = path
	}

	rel = filepath.ToSlash(rel)

	if len(a.cfg.Include) > 0 && !matchesAny(a.cfg.Include, rel, filepath.Base(path)) {
		return false
	}

	return !matchesAny(a.cfg.Exclude, rel, filepath.Base(path))
}

// matchesAny reports whether any pattern matches any of the candidates.
// Malformed patterns never match.
func matchesAny(patterns []string, candidates ...string) bool {
	for _, pattern := range patterns {
		for _, candidate := range candidates {
			if ok, err := filepath.Match(pattern, candidate); err == nil && ok {
				return true
			}
		}
	}

	return false
}
