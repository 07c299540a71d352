package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/rules"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

func parseGo(t *testing.T, src string) *syntax.Unit {
	t.Helper()

	unit, err := syntax.NewParser().Parse(context.Background(), "fixture.go", []byte(src), 1)
	require.NoError(t, err)

	return unit
}

func byKind(violations []report.Violation, kind string) []report.Violation {
	var out []report.Violation

	for _, v := range violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}

	return out
}

// longFunction builds a Go source whose single function spans the given
// number of lines.
func longFunction(lines int) string {
	var b strings.Builder

	b.WriteString("package p\n\nfunc big() {\n")

	for range lines - 2 {
		b.WriteString("\t_ = 1\n")
	}

	b.WriteString("}\n")

	return b.String()
}

func TestFuncSize_OversizedFunctionFlaggedOnce(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, longFunction(600))
	engine := rules.NewEngine(rules.Config{MaxFunctionLines: 500})

	_, violations := engine.Evaluate([]*syntax.Unit{unit})

	sized := byKind(violations, "rule/func-size")
	require.Len(t, sized, 1)
	assert.Equal(t, uint32(3), sized[0].Line)
	assert.Contains(t, sized[0].Message, "big")
	assert.Contains(t, sized[0].Message, "600 lines")
}

func TestFuncSize_UnderLimitPasses(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, longFunction(100))
	engine := rules.NewEngine(rules.Config{MaxFunctionLines: 500})

	compliance, violations := engine.Evaluate([]*syntax.Unit{unit})
	assert.Empty(t, byKind(violations, "rule/func-size"))
	assert.Equal(t, 1.0, ruleScore(t, compliance, "func-size"))
}

func TestNestingDepth_DeepConditionals(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, `package p

func deep(a, b, c int) int {
	if a > 0 {
		if b > 0 {
			if c > 0 {
				return a + b + c
			}
		}
	}
	return 0
}
`)

	engine := rules.NewEngine(rules.Config{MaxNestingDepth: 2})

	_, violations := engine.Evaluate([]*syntax.Unit{unit})

	nested := byKind(violations, "rule/nesting-depth")
	require.Len(t, nested, 1)
	assert.Contains(t, nested[0].Message, "3 levels")
}

func TestDirectRecursion_SelfCall(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, `package p

func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}

func plain(n int) int {
	return n + 1
}
`)

	_, violations := rules.NewEngine(rules.Config{}).Evaluate([]*syntax.Unit{unit})

	recursive := byKind(violations, "rule/direct-recursion")
	require.Len(t, recursive, 1)
	assert.Contains(t, recursive[0].Message, "fib")
}

func TestAllocInLoop_AppendInside(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, `package p

func gather(n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return out
}
`)

	_, violations := rules.NewEngine(rules.Config{}).Evaluate([]*syntax.Unit{unit})

	allocs := byKind(violations, "rule/alloc-in-loop")
	require.Len(t, allocs, 1)
	assert.Contains(t, allocs[0].Message, "append")
}

func TestAssertDensity_LongFunctionWithoutAssertions(t *testing.T) {
	t.Parallel()

	bare := parseGo(t, longFunction(30))
	engine := rules.NewEngine(rules.Config{AssertFreeLines: 10})

	_, violations := engine.Evaluate([]*syntax.Unit{bare})
	require.Len(t, byKind(violations, "rule/assert-density"), 1)

	checked := parseGo(t, `package p

func guarded(n int) int {
	if n < 0 {
		panic("negative")
	}
	x := n
	x++
	x++
	x++
	x++
	return x
}
`)

	_, violations = engine.Evaluate([]*syntax.Unit{checked})
	assert.Empty(t, byKind(violations, "rule/assert-density"))
}

func TestScopeVars_TooManyDeclarations(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, `package p

func busy() int {
	a := 1
	b := 2
	c := 3
	return a + b + c
}
`)

	engine := rules.NewEngine(rules.Config{MaxScopeVars: 2})

	_, violations := engine.Evaluate([]*syntax.Unit{unit})

	scoped := byKind(violations, "rule/scope-vars")
	require.Len(t, scoped, 1)
	assert.Contains(t, scoped[0].Message, "3 variables")
}

func TestUncheckedCall_DiscardedResult(t *testing.T) {
	t.Parallel()

	unit := parseGo(t, `package p

import "os"

func drop(f *os.File) error {
	f.Close()
	return f.Sync()
}
`)

	_, violations := rules.NewEngine(rules.Config{}).Evaluate([]*syntax.Unit{unit})

	unchecked := byKind(violations, "rule/unchecked-call")
	require.Len(t, unchecked, 1)
	assert.Contains(t, unchecked[0].Message, "close")
	assert.Equal(t, uint32(6), unchecked[0].Line)
}

func TestEvaluate_EmptyInputFullyCompliant(t *testing.T) {
	t.Parallel()

	compliance, violations := rules.NewEngine(rules.Config{}).Evaluate(nil)
	assert.Empty(t, violations)
	assert.Equal(t, 1.0, compliance.Score)

	for _, result := range compliance.RuleResults {
		assert.Equal(t, 1.0, result.Score)
		assert.Zero(t, result.Checks)
	}
}

func TestEvaluate_ScoreMonotoneInViolations(t *testing.T) {
	t.Parallel()

	engine := rules.NewEngine(rules.Config{MaxFunctionLines: 10})

	short := parseGo(t, "package p\n\nfunc ok() int {\n\treturn 1\n}\n")
	long := parseGo(t, longFunction(20))

	clean, _ := engine.Evaluate([]*syntax.Unit{short, short})
	one, _ := engine.Evaluate([]*syntax.Unit{short, long})
	two, _ := engine.Evaluate([]*syntax.Unit{long, long})

	assert.GreaterOrEqual(t, clean.Score, one.Score)
	assert.GreaterOrEqual(t, one.Score, two.Score)
	assert.Greater(t, clean.Score, two.Score)
}

func ruleScore(t *testing.T, compliance report.Compliance, ruleID string) float64 {
	t.Helper()

	for _, result := range compliance.RuleResults {
		if result.RuleID == ruleID {
			return result.Score
		}
	}

	t.Fatalf("rule %s missing from results", ruleID)

	return 0
}
