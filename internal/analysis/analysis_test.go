package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/analysis"
	"github.com/Sumatoshi-tech/couplint/internal/detect"
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

const smellySource = `package sample

func ttl() int {
	return 86400
}

func endpointA() string { return "api/v2/users" }

func endpointB() string { return "api/v2/users" }

func endpointC() string { return "api/v2/users" }
`

const cleanSource = `package sample

const answer = 42

func double(n int) int {
	return n + n
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newAnalyzer(t *testing.T, cfg analysis.Config) *analysis.Analyzer {
	t.Helper()

	analyzer, err := analysis.New(cfg)
	require.NoError(t, err)

	return analyzer
}

func TestAnalyze_EmptyDirectory(t *testing.T) {
	t.Parallel()

	analyzer := newAnalyzer(t, analysis.Config{Root: t.TempDir()})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	assert.Empty(t, rep.Violations)
	assert.Empty(t, rep.Errors)
	assert.Equal(t, 1.0, rep.Duplication.MECEScore)
	assert.Equal(t, 1.0, rep.Compliance.Score)
	assert.Zero(t, rep.Metrics.FilesAnalyzed)
}

func TestAnalyze_MissingRootIsFatal(t *testing.T) {
	t.Parallel()

	analyzer := newAnalyzer(t, analysis.Config{
		Root: filepath.Join(t.TempDir(), "nope"),
	})

	_, err := analyzer.Analyze(context.Background())
	require.Error(t, err)

	var analysisErr *analysis.AnalysisError

	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, report.PhaseDiscover, analysisErr.Phase)
}

func TestAnalyze_FindsKnownSmells(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "smelly.go", smellySource)
	writeFile(t, dir, "clean.go", cleanSource)

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Metrics.FilesAnalyzed)
	assert.Empty(t, rep.Errors)

	var kinds []string
	for _, v := range rep.Violations {
		kinds = append(kinds, v.Kind)
	}

	assert.Contains(t, kinds, "connascence/meaning")
	assert.Contains(t, kinds, "connascence/value")

	// Sorted output: file ascending, then line.
	for i := 1; i < len(rep.Violations); i++ {
		prev, cur := rep.Violations[i-1], rep.Violations[i]
		ordered := prev.File < cur.File ||
			(prev.File == cur.File && prev.Line <= cur.Line)
		assert.True(t, ordered, "violations out of order at %d", i)
	}
}

func TestAnalyze_SecondRunHitsCaches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "smelly.go", smellySource)

	analyzer := newAnalyzer(t, analysis.Config{
		Root:     dir,
		CacheDir: filepath.Join(dir, ".cache"),
	})

	first, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	second, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Violations, second.Violations)
	assert.Positive(t, second.Metrics.CacheHitRate)
}

func TestAnalyze_UnreadableFileIsSkippedNotFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.go", cleanSource)

	// A dangling symlink with a source extension survives discovery but
	// fails to read, exercising the file-scoped parse error path.
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "trap.go")))

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Metrics.FilesAnalyzed)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.PhaseParse, rep.Errors[0].Phase)
	assert.Equal(t, filepath.Join(dir, "trap.go"), rep.Errors[0].File)
}

func TestAnalyze_ExcludeFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "keep.go", cleanSource)
	writeFile(t, dir, "skip_test.go", cleanSource)

	analyzer := newAnalyzer(t, analysis.Config{
		Root:    dir,
		Exclude: []string{"*_test.go"},
	})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Metrics.FilesAnalyzed)
}

func TestAnalyze_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.go", cleanSource)

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx)
	require.Error(t, err)

	var analysisErr *analysis.AnalysisError

	require.ErrorAs(t, err, &analysisErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidate_DropsCachedResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "smelly.go", smellySource)

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	_, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	affected := analyzer.Invalidate(path)
	assert.Equal(t, []string{path}, affected)
}

func TestAnalyze_IdenticalFiles_EachKeepsItsPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "a.go", smellySource)
	second := writeFile(t, dir, "b.go", smellySource)

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Metrics.FilesAnalyzed)
	assert.Empty(t, rep.Errors)

	// Byte-identical files share one parse, but every violation must
	// still name the file it was found in.
	perFile := make(map[string]int)
	for _, v := range rep.Violations {
		perFile[v.File]++
	}

	require.NotEmpty(t, rep.Violations)
	assert.Positive(t, perFile[first])
	assert.Positive(t, perFile[second])
	assert.Equal(t, perFile[first], perFile[second])
}

func TestAnalyze_ImportEdges_CascadeOnInvalidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imported := writeFile(t, dir, "b.js", "export const answer = 42;\n")
	importer := writeFile(t, dir, "a.js",
		"import { answer } from \"./b\";\n\nexport const twice = answer * 2;\n")

	analyzer := newAnalyzer(t, analysis.Config{Root: dir})

	_, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	// Invalidating the imported file drops the importer's results too.
	affected := analyzer.Invalidate(imported)
	assert.Contains(t, affected, imported)
	assert.Contains(t, affected, importer)

	// The importer has no dependents, so it invalidates alone.
	assert.Equal(t, []string{importer}, analyzer.Invalidate(importer))
}

// seizingDetector wraps one category's detector and panics for a single
// file, leaving every other (file, category) pair untouched.
type seizingDetector struct {
	detect.Detector

	trap string
}

func (d *seizingDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	if filepath.Base(unit.Path) == d.trap {
		panic("scratch state corrupted")
	}

	return d.Detector.Detect(unit)
}

// trapFactory builds the regular detector set, with the timing detector
// replaced by one that panics on the named file.
func trapFactory(trap string) func(detect.Category, detect.Config) (detect.Detector, error) {
	return func(cat detect.Category, cfg detect.Config) (detect.Detector, error) {
		det, err := detect.NewDetector(cat, cfg)
		if err != nil {
			return nil, err
		}

		if cat == detect.CategoryTiming {
			return &seizingDetector{Detector: det, trap: trap}, nil
		}

		return det, nil
	}
}

func TestAnalyze_PanickingDetector_OneEntryRestUnaffected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.go", smellySource)
	trapped := writeFile(t, dir, "trap.go", smellySource)

	analyzer := newAnalyzer(t, analysis.Config{
		Root: dir,
		Pool: detect.PoolConfig{Factory: trapFactory("trap.go")},
	})

	rep, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	// Exactly one degraded pair, attributed to its file and detector.
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.PhaseDetect, rep.Errors[0].Phase)
	assert.Equal(t, trapped, rep.Errors[0].File)
	assert.Equal(t, "timing", rep.Errors[0].Detector)
	assert.Contains(t, rep.Errors[0].Cause, "detector panic")

	// Every other category still ran over the trapped file.
	perFile := make(map[string]int)
	for _, v := range rep.Violations {
		perFile[v.File]++
	}

	assert.Equal(t, 2, rep.Metrics.FilesAnalyzed)
	assert.Positive(t, perFile[trapped])
}

// cancellingDetector cancels the run's context the first time it is asked
// to detect, simulating cancellation arriving mid-run.
type cancellingDetector struct {
	detect.Detector

	cancel context.CancelFunc
}

func (d *cancellingDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	d.cancel()

	return d.Detector.Detect(unit)
}

func TestAnalyze_CancellationBetweenPhases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.go", smellySource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := func(cat detect.Category, cfg detect.Config) (detect.Detector, error) {
		det, err := detect.NewDetector(cat, cfg)
		if err != nil {
			return nil, err
		}

		return &cancellingDetector{Detector: det, cancel: cancel}, nil
	}

	analyzer := newAnalyzer(t, analysis.Config{
		Root: dir,
		Pool: detect.PoolConfig{Factory: factory},
	})

	_, err := analyzer.Analyze(ctx)
	require.Error(t, err)

	var analysisErr *analysis.AnalysisError

	require.ErrorAs(t, err, &analysisErr)
	assert.ErrorIs(t, err, context.Canceled)

	// Cancellation during detection is caught at the next phase boundary,
	// never carried silently into aggregation or scoring.
	assert.Equal(t, report.PhaseAggregate, analysisErr.Phase)
}
