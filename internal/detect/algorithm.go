package detect

import (
	"fmt"
	"hash/fnv"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// algorithmDetector flags functions within one file whose normalized body
// token sequences are identical: two copies of the same algorithm that must
// be kept in step by hand.
type algorithmDetector struct {
	minTokens int
	byHash    map[uint64][]*syntax.Node
}

func newAlgorithmDetector(minTokens int) *algorithmDetector {
	return &algorithmDetector{
		minTokens: minTokens,
		byHash:    make(map[uint64][]*syntax.Node),
	}
}

func (d *algorithmDetector) Category() Category { return CategoryAlgorithm }

func (d *algorithmDetector) Reset() {
	clear(d.byHash)
}

func (d *algorithmDetector) Detect(unit *syntax.Unit) ([]report.Violation, error) {
	for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
		tokens := normalizedTokens(fn)
		if len(tokens) < d.minTokens {
			continue
		}

		h := hashTokens(tokens)
		d.byHash[h] = append(d.byHash[h], fn)
	}

	var violations []report.Violation

	for _, fns := range d.byHash {
		if len(fns) < 2 {
			continue
		}

		first := fns[0]

		for _, dup := range fns[1:] {
			violations = append(violations, report.Violation{
				Kind:     violationKind(CategoryAlgorithm),
				Severity: report.SeverityWarning,
				File:     unit.Path,
				Line:     dup.StartLine,
				Message: fmt.Sprintf("%s duplicates the algorithm of %s (line %d)",
					displayName(dup), displayName(first), first.StartLine),
			})
		}
	}

	return violations, nil
}

// normalizedTokens flattens a function body to a kind sequence with
// identifiers and literals replaced by placeholders, so renames do not
// defeat matching.
func normalizedTokens(fn *syntax.Node) []string {
	var tokens []string

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		switch n.Kind {
		case syntax.KindIdent, syntax.KindParam:
			tokens = append(tokens, "ID")
		case syntax.KindNumberLit:
			tokens = append(tokens, "NUM")
		case syntax.KindStringLit:
			tokens = append(tokens, "STR")
		case syntax.KindComment:
			// Comments never participate in algorithm identity.
		default:
			tokens = append(tokens, n.Type)
		}

		return true
	})

	return tokens
}

// hashTokens folds a token sequence into a 64-bit FNV-1a hash.
func hashTokens(tokens []string) uint64 {
	h := fnv.New64a()

	for _, tok := range tokens {
		_, _ = h.Write([]byte(tok))
		_, _ = h.Write([]byte{0})
	}

	return h.Sum64()
}

// displayName names a function for messages, covering anonymous functions.
func displayName(fn *syntax.Node) string {
	if name := syntax.FunctionName(fn); name != "" {
		return name
	}

	return "anonymous function"
}
