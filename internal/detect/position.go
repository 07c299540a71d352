package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// criticalParamExcess is how far past the limit a signature must grow before
// positional coupling is graded critical instead of warning.
const criticalParamExcess = 3

// positionDetector flags functions whose callers must agree on a long
// positional argument order.
type positionDetector struct {
	maxParams int
}

func newPositionDetector(maxParams int) *positionDetector {
	return &positionDetector{maxParams: maxParams}
}

func (d *positionDetector) Category() Category { return CategoryPosition }

func (d *positionDetector) Reset() {}

func (d *positionDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	var violations []report.Violation

	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		count := countParams(fn)
		if count <= d.maxParams {
			continue
		}

		severity := report.SeverityWarning
		if count > d.maxParams+criticalParamExcess {
			severity = report.SeverityCritical
		}

		name := syntax.FunctionName(fn)
		if name == "" {
			name = "anonymous function"
		}

		violations = append(violations, report.Violation{
			Kind:     violationKind(CategoryPosition),
			Severity: severity,
			File:     unit.Path,
			Line:     fn.StartLine,
			Message:  fmt.Sprintf("%s takes %d positional parameters (limit %d)", name, count, d.maxParams),
		})
	}

	return violations, nil
}

// countParams counts parameter nodes belonging to fn itself, not to nested
// function literals.
func countParams(fn *syntax.Node) int {
	count := 0

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n != fn && n.Kind == syntax.KindFunction {
			return false
		}

		// The body never declares positional parameters.
		if n.Kind == syntax.KindBlock {
			return false
		}

		if n.Kind == syntax.KindParam {
			count++
		}

		return true
	})

	return count
}
