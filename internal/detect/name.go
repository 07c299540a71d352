package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/levenshtein"
)

// Name coupling limits.
const (
	// minNameLength excludes short names like i/j/ok from collision checks.
	minNameLength = 3

	// maxNamesCompared caps pairwise comparison for pathological files.
	maxNamesCompared = 512
)

// nameDetector flags declared identifiers that differ by a single character
// edit. Such near-collisions force readers to track which spelling belongs
// where, the weakest form of name coupling.
type nameDetector struct {
	candidates []declaredName
	lev        levenshtein.Context
}

func newNameDetector() *nameDetector {
	return &nameDetector{}
}

func (d *nameDetector) Category() Category { return CategoryName }

func (d *nameDetector) Reset() {
	d.candidates = d.candidates[:0]
}

func (d *nameDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	for _, dn := range collectDeclaredNames(unit.Root) {
		if len(dn.name) < minNameLength {
			continue
		}

		d.candidates = append(d.candidates, dn)
		if len(d.candidates) >= maxNamesCompared {
			break
		}
	}

	var violations []report.Violation

	for i := 0; i < len(d.candidates); i++ {
		for j := i + 1; j < len(d.candidates); j++ {
			a, b := d.candidates[i], d.candidates[j]
			if a.name == b.name || d.lev.Distance(a.name, b.name) != 1 {
				continue
			}

			violations = append(violations, report.Violation{
				Kind:     violationKind(CategoryName),
				Severity: report.SeverityWarning,
				File:     unit.Path,
				Line:     b.line,
				Message:  fmt.Sprintf("identifier %q nearly collides with %q (declared at line %d)", b.name, a.name, a.line),
			})
		}
	}

	return violations, nil
}
