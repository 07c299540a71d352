package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/mapx"
)

// identityDetector flags package-level mutable objects referenced from many
// functions: every referrer depends on touching the very same instance.
type identityDetector struct {
	maxRefs int
	refs    map[string]int
}

func newIdentityDetector(maxRefs int) *identityDetector {
	return &identityDetector{
		maxRefs: maxRefs,
		refs:    make(map[string]int),
	}
}

func (d *identityDetector) Category() Category { return CategoryIdentity }

func (d *identityDetector) Reset() {
	clear(d.refs)
}

func (d *identityDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	globals := packageGlobals(unit.Root)
	if len(globals) == 0 {
		return nil, nil
	}

	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		for _, name := range referencedGlobals(fn, globals) {
			d.refs[name]++
		}
	}

	var violations []report.Violation

	for _, name := range mapx.SortedKeys(d.refs) {
		count := d.refs[name]
		if count < d.maxRefs {
			continue
		}

		violations = append(violations, report.Violation{
			Kind:     violationKind(CategoryIdentity),
			Severity: report.SeverityWarning,
			File:     unit.Path,
			Line:     globals[name],
			Message:  fmt.Sprintf("%d functions share the package-level object %q", count, name),
		})
	}

	return violations, nil
}

// referencedGlobals returns the distinct global names mentioned inside fn.
func referencedGlobals(fn *syntax.Node, globals map[string]uint32) []string {
	var names []string

	seen := make(map[string]bool)

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n != fn && n.Kind == syntax.KindFunction {
			return false
		}

		if n.Kind != syntax.KindIdent || n.Token == "" {
			return true
		}

		if _, isGlobal := globals[n.Token]; isGlobal && !seen[n.Token] {
			seen[n.Token] = true

			names = append(names, n.Token)
		}

		return true
	})

	return names
}
