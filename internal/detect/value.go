package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/mapx"
)

// trivialLiterals never count toward shared-value coupling.
var trivialLiterals = map[string]bool{
	"0": true, "1": true, "-1": true, "2": true,
	`""`: true, `''`: true, "``": true,
	"true": true, "false": true,
}

// literalSite tracks one literal's occurrences within a file.
type literalSite struct {
	count     int
	firstLine uint32
}

// valueDetector flags a literal repeated across one file often enough that
// the copies must all change together. Such a value wants to be a named
// constant.
type valueDetector struct {
	threshold int
	sites     map[string]*literalSite
}

func newValueDetector(threshold int) *valueDetector {
	return &valueDetector{
		threshold: threshold,
		sites:     make(map[string]*literalSite),
	}
}

func (d *valueDetector) Category() Category { return CategoryValue }

func (d *valueDetector) Reset() {
	clear(d.sites)
}

func (d *valueDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	syntax.Walk(unit.Root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		// Literals under a constant declaration are already named once.
		if n.Kind == syntax.KindConstDecl {
			return false
		}

		if n.Kind != syntax.KindNumberLit && n.Kind != syntax.KindStringLit {
			return true
		}

		if n.Token == "" || trivialLiterals[n.Token] {
			return true
		}

		site, ok := d.sites[n.Token]
		if !ok {
			site = &literalSite{firstLine: n.StartLine}
			d.sites[n.Token] = site
		}

		site.count++

		return true
	})

	var violations []report.Violation

	for _, token := range mapx.SortedKeys(d.sites) {
		site := d.sites[token]
		if site.count < d.threshold {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     violationKind(CategoryValue),
			Severity: report.SeverityWarning,
			File:     unit.Path,
			Line:     site.firstLine,
			Message:  fmt.Sprintf("literal %s repeats %d times; extract a named constant", token, site.count),
		})
	}

	return violations, nil
}
