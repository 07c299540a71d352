package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// executionDetector flags functions that assign to package-level mutable
// state. Callers of such functions inherit an invisible constraint on the
// order they run in.
type executionDetector struct{}

func newExecutionDetector() *executionDetector {
	return &executionDetector{}
}

func (d *executionDetector) Category() Category { return CategoryExecution }

func (d *executionDetector) Reset() {}

func (d *executionDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	globals := packageGlobals(unit.Root)
	if len(globals) == 0 {
		return nil, nil
	}

	var violations []report.Violation

	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		mutated := mutatedGlobals(fn, globals)
		for _, name := range mutated {
			violations = append(violations, report.Violation{
				Kind:     violationKind(CategoryExecution),
				Severity: report.SeverityWarning,
				File:     unit.Path,
				Line:     fn.StartLine,
				Message:  fmt.Sprintf("%s mutates package-level state %q; callers become order-dependent", displayName(fn), name),
			})
		}
	}

	return violations, nil
}

// mutatedGlobals returns the distinct global names assigned to inside fn,
// in first-assignment order.
func mutatedGlobals(fn *syntax.Node, globals map[string]uint32) []string {
	var names []string

	seen := make(map[string]bool)

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n != fn && n.Kind == syntax.KindFunction {
			return false
		}

		if n.Kind != syntax.KindAssign {
			return true
		}

		target := firstIdentToken(n)
		if _, isGlobal := globals[target]; isGlobal && !seen[target] {
			seen[target] = true

			names = append(names, target)
		}

		return true
	})

	return names
}
