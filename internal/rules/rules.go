package rules

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// funcSizeRule flags functions longer than the configured line limit.
type funcSizeRule struct {
	maxLines int
}

func (r *funcSizeRule) ID() string { return "func-size" }

func (r *funcSizeRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	fns := syntax.Functions(unit.Root, maxWalkDepth)

	var violations []report.Violation

	for _, fn := range fns {
		lines := functionLines(fn)
		if lines <= r.maxLines {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     ruleKind(r.ID()),
			Severity: report.SeverityWarning,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s spans %d lines (limit %d)", functionLabel(fn), lines, r.maxLines),
		})
	}

	return len(fns), violations
}

// nestingDepthRule flags functions whose loops and conditionals nest deeper
// than the configured limit.
type nestingDepthRule struct {
	maxDepth int
}

func (r *nestingDepthRule) ID() string { return "nesting-depth" }

func (r *nestingDepthRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	fns := syntax.Functions(unit.Root, maxWalkDepth)

	var violations []report.Violation

	for _, fn := range fns {
		depth := maxNesting(fn)
		if depth <= r.maxDepth {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     ruleKind(r.ID()),
			Severity: report.SeverityWarning,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s nests %d levels deep (limit %d)", functionLabel(fn), depth, r.maxDepth),
		})
	}

	return len(fns), violations
}

// directRecursionRule flags functions that call themselves.
type directRecursionRule struct{}

func (r *directRecursionRule) ID() string { return "direct-recursion" }

func (r *directRecursionRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	checks := 0

	var violations []report.Violation

	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		name := syntax.FunctionName(fn)
		if name == "" {
			continue
		}

		checks++

		if !callsTarget(fn, strings.ToLower(name)) {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     ruleKind(r.ID()),
			Severity: report.SeverityInfo,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s calls itself; verify the recursion is bounded", name),
		})
	}

	return checks, violations
}

// allocCallees are call targets that allocate on the usual hot paths.
var allocCallees = map[string]bool{
	"make":   true,
	"new":    true,
	"append": true,
	"malloc": true,
	"calloc": true,
}

// allocInLoopRule flags loops whose bodies allocate on every iteration.
type allocInLoopRule struct{}

func (r *allocInLoopRule) ID() string { return "alloc-in-loop" }

func (r *allocInLoopRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	checks := 0

	var violations []report.Violation

	syntax.Walk(unit.Root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind != syntax.KindLoop {
			return true
		}

		checks++

		if target, found := loopAllocTarget(n); found {
			violations = append(violations, report.Violation{
				Kind:     ruleKind(r.ID()),
				Severity: report.SeverityInfo,
				File:     unit.Path,
				Line:     n.StartLine,
				Message:  fmt.Sprintf("loop body calls %s on every iteration; hoist the allocation", target),
			})
		}

		// Nested loops are their own checks.
		return true
	})

	return checks, violations
}

// loopAllocTarget finds the first allocating call directly inside a loop
// body, ignoring nested functions.
func loopAllocTarget(loop *syntax.Node) (string, bool) {
	target := ""

	syntax.Walk(loop, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if target != "" {
			return false
		}

		if n != loop && n.Kind == syntax.KindFunction {
			return false
		}

		if n.Kind != syntax.KindCall {
			return true
		}

		for _, callee := range callTargets(n) {
			if allocCallees[callee] {
				target = callee

				return false
			}
		}

		return true
	})

	return target, target != ""
}

// assertCallees are call targets treated as assertions or invariant checks.
var assertCallees = map[string]bool{
	"assert":  true,
	"require": true,
	"expect":  true,
	"verify":  true,
	"check":   true,
	"panic":   true,
	"fatal":   true,
	"fatalf":  true,
}

// assertDensityRule flags long functions containing no assertion-style
// call at all.
type assertDensityRule struct {
	minLines int
}

func (r *assertDensityRule) ID() string { return "assert-density" }

func (r *assertDensityRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	checks := 0

	var violations []report.Violation

	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		lines := functionLines(fn)
		if lines < r.minLines {
			continue
		}

		checks++

		if hasAssertCall(fn) {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     ruleKind(r.ID()),
			Severity: report.SeverityInfo,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s runs %d lines without a single assertion", functionLabel(fn), lines),
		})
	}

	return checks, violations
}

// hasAssertCall reports whether any call inside fn targets an assertion.
func hasAssertCall(fn *syntax.Node) bool {
	found := false

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if found {
			return false
		}

		if n.Kind != syntax.KindCall {
			return true
		}

		for _, callee := range callTargets(n) {
			if assertCallees[callee] {
				found = true

				return false
			}
		}

		return true
	})

	return found
}

// scopeVarsRule flags functions declaring more distinct variables than the
// configured limit.
type scopeVarsRule struct {
	maxVars int
}

func (r *scopeVarsRule) ID() string { return "scope-vars" }

func (r *scopeVarsRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	fns := syntax.Functions(unit.Root, maxWalkDepth)

	var violations []report.Violation

	for _, fn := range fns {
		count := scopeVarCount(fn)
		if count <= r.maxVars {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     ruleKind(r.ID()),
			Severity: report.SeverityWarning,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s declares %d variables (limit %d)", functionLabel(fn), count, r.maxVars),
		})
	}

	return len(fns), violations
}

// scopeVarCount counts variable declarations directly inside fn, not in
// nested function literals.
func scopeVarCount(fn *syntax.Node) int {
	count := 0

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n != fn && n.Kind == syntax.KindFunction {
			return false
		}

		if n.Kind == syntax.KindVarDecl {
			count++
		}

		return true
	})

	return count
}

// mustCheckCallees are call targets whose results go wrong silently when
// dropped in statement position.
var mustCheckCallees = map[string]bool{
	"close":    true,
	"flush":    true,
	"write":    true,
	"send":     true,
	"commit":   true,
	"rollback": true,
	"sync":     true,
}

// uncheckedCallRule flags statement-position calls to must-check callees:
// the call's result is discarded where it most needs looking at.
type uncheckedCallRule struct{}

func (r *uncheckedCallRule) ID() string { return "unchecked-call" }

func (r *uncheckedCallRule) Check(unit *syntax.Unit) (int, []report.Violation) {
	checks := 0

	var violations []report.Violation

	syntax.Walk(unit.Root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind != syntax.KindBlock {
			return true
		}

		for _, stmt := range n.Children {
			call := statementCall(stmt)
			if call == nil {
				continue
			}

			checks++

			target := mustCheckTarget(call)
			if target == "" {
				continue
			}

			violations = append(violations, report.Violation{
				Kind:     ruleKind(r.ID()),
				Severity: report.SeverityWarning,
				File:     unit.Path,
				Line:     call.StartLine,
				Message:  fmt.Sprintf("result of %s is discarded", target),
			})
		}

		return true
	})

	return checks, violations
}

// statementCall unwraps a block statement to the call it consists of, if
// any. Expression statements wrap the call in one extra node.
func statementCall(stmt *syntax.Node) *syntax.Node {
	if stmt.Kind == syntax.KindCall {
		return stmt
	}

	if stmt.Kind == syntax.KindOther && len(stmt.Children) == 1 && stmt.Children[0].Kind == syntax.KindCall {
		return stmt.Children[0]
	}

	return nil
}

// mustCheckTarget returns the matched must-check callee of a call, or "".
func mustCheckTarget(call *syntax.Node) string {
	for _, callee := range callTargets(call) {
		if mustCheckCallees[callee] {
			return callee
		}
	}

	return ""
}
