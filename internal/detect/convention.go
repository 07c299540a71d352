package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// Convention detection limits.
const (
	// minorityRatio is the largest share a casing style can hold and still
	// count as the odd one out.
	minorityRatio = 0.3

	// maxConventionFindings caps reported minority names per file.
	maxConventionFindings = 5
)

// conventionDetector flags files that mix snake_case and camelCase declared
// names, reporting the minority style.
type conventionDetector struct{}

func newConventionDetector() *conventionDetector {
	return &conventionDetector{}
}

func (d *conventionDetector) Category() Category { return CategoryConvention }

func (d *conventionDetector) Reset() {}

func (d *conventionDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	names := collectDeclaredNames(unit.Root)

	var snake, camel []declaredName

	for _, dn := range names {
		switch classifyCasing(dn.name) {
		case styleSnake:
			snake = append(snake, dn)
		case styleCamel:
			camel = append(camel, dn)
		case styleNeutral:
		}
	}

	if len(snake) == 0 || len(camel) == 0 {
		return nil, nil
	}

	minority, majority := snake, camel
	minorityStyle, majorityStyle := "snake_case", "camelCase"

	if len(camel) < len(snake) {
		minority, majority = camel, snake
		minorityStyle, majorityStyle = majorityStyle, minorityStyle
	}

	total := len(minority) + len(majority)
	if float64(len(minority))/float64(total) > minorityRatio {
		return nil, nil // Too even a split to call either side the convention.
	}

	var violations []report.Violation

	for i, dn := range minority {
		if i >= maxConventionFindings {
			break
		}

		violations = append(violations, report.Violation{
			Kind:     violationKind(CategoryConvention),
			Severity: report.SeverityInfo,
			File:     unit.Path,
			Line:     dn.line,
			Message:  fmt.Sprintf("%q is %s in a file that prefers %s", dn.name, minorityStyle, majorityStyle),
		})
	}

	return violations, nil
}
