package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// maxMeaningFindings caps magic-number reports per file.
const maxMeaningFindings = 20

// meaningDetector flags magic numbers: numeric literals outside constant
// declarations whose meaning every reader must reconstruct for themselves.
type meaningDetector struct{}

func newMeaningDetector() *meaningDetector {
	return &meaningDetector{}
}

func (d *meaningDetector) Category() Category { return CategoryMeaning }

func (d *meaningDetector) Reset() {}

func (d *meaningDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	var violations []report.Violation

	syntax.Walk(unit.Root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind == syntax.KindConstDecl {
			return false // Named constants are the fix, not the finding.
		}

		if len(violations) >= maxMeaningFindings {
			return false
		}

		if n.Kind != syntax.KindNumberLit || trivialLiterals[n.Token] || n.Token == "" {
			return true
		}

		violations = append(violations, report.Violation{
			Kind:     violationKind(CategoryMeaning),
			Severity: report.SeverityInfo,
			File:     unit.Path,
			Line:     n.StartLine,
			Message:  fmt.Sprintf("magic number %s; give it a name", n.Token),
		})

		return true
	})

	return violations, nil
}
