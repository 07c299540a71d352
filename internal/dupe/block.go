package dupe

import (
	"strconv"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// maxWalkDepth bounds tree walks during block extraction.
const maxWalkDepth = 500

// block is one candidate clone: a function-level body reduced to a
// normalized token set.
type block struct {
	ref    report.BlockRef
	tokens map[string]struct{}
}

// extractBlocks collects function-level blocks with at least minTokens
// normalized tokens. Smaller bodies match each other too easily to mean
// anything.
func extractBlocks(units []*syntax.Unit, minTokens int) []block {
	var blocks []block

	for _, unit := range units {
		for _, fn := range syntax.Functions(unit.Root, maxWalkDepth) {
			tokens := tokenSet(fn)
			if len(tokens) < minTokens {
				continue
			}

			name := syntax.FunctionName(fn)
			if name == "" {
				name = "anonymous function"
			}

			blocks = append(blocks, block{
				ref: report.BlockRef{
					File:      unit.Path,
					Function:  name,
					StartLine: fn.StartLine,
					EndLine:   fn.EndLine,
				},
				tokens: tokens,
			})
		}
	}

	return blocks
}

// tokenSet flattens a function to its distinct normalized tokens.
// Identifiers and literals collapse to placeholders so renaming variables
// does not defeat matching; structural tokens keep a position suffix so
// order still matters to the set.
func tokenSet(fn *syntax.Node) map[string]struct{} {
	set := make(map[string]struct{})
	pos := 0

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		tok := normalizeToken(n)
		if tok == "" {
			return true
		}

		set[positionedToken(tok, pos)] = struct{}{}
		pos++

		return true
	})

	return set
}

// normalizeToken maps a node to its clone-comparison token, or "" for
// nodes that never participate.
func normalizeToken(n *syntax.Node) string {
	switch n.Kind {
	case syntax.KindIdent, syntax.KindParam:
		return "ID"
	case syntax.KindNumberLit:
		return "NUM"
	case syntax.KindStringLit:
		return "STR"
	case syntax.KindComment:
		return ""
	default:
		return n.Type
	}
}

// positionedToken suffixes a token with its walk position, turning the
// token stream into a set without losing sequence information.
func positionedToken(tok string, pos int) string {
	return tok + "#" + strconv.Itoa(pos)
}

// jaccard is the similarity of two token sets: intersection over union.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	shared := 0

	for tok := range small {
		if _, ok := large[tok]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(a)+len(b)-shared)
}
