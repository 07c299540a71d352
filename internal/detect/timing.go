package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// sleepCallees are call targets that suggest sleep-based synchronization:
// correctness depending on how long something else takes.
var sleepCallees = map[string]bool{
	"sleep":      true,
	"usleep":     true,
	"nanosleep":  true,
	"settimeout": true,
	"delay":      true,
	"pause":      true,
}

// timingDetector flags sleep-style calls used inside function bodies.
type timingDetector struct{}

func newTimingDetector() *timingDetector {
	return &timingDetector{}
}

func (d *timingDetector) Category() Category { return CategoryTiming }

func (d *timingDetector) Reset() {}

func (d *timingDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	var violations []report.Violation

	syntax.Walk(unit.Root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind != syntax.KindCall {
			return true
		}

		for _, callee := range calleeTokens(n) {
			if !sleepCallees[callee] {
				continue
			}

			violations = append(violations, report.Violation{
				Kind:     violationKind(CategoryTiming),
				Severity: report.SeverityWarning,
				File:     unit.Path,
				Line:     n.StartLine,
				Message:  fmt.Sprintf("call to %s couples correctness to elapsed time", callee),
			})

			break
		}

		return true
	})

	return violations, nil
}
