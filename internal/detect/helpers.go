package detect

import (
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// declaredName is one identifier declaration site.
type declaredName struct {
	name string
	line uint32
}

// collectDeclaredNames gathers identifiers declared in the unit: function
// names, parameters, and the first identifier of each variable declaration.
func collectDeclaredNames(root *syntax.Node) []declaredName {
	var names []declaredName

	seen := make(map[string]bool)

	add := func(name string, line uint32) {
		if name == "" || seen[name] {
			return
		}

		seen[name] = true

		names = append(names, declaredName{name: name, line: line})
	}

	syntax.Walk(root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		switch n.Kind {
		case syntax.KindFunction:
			add(syntax.FunctionName(n), n.StartLine)
		case syntax.KindParam:
			add(firstIdentToken(n), n.StartLine)
		case syntax.KindVarDecl, syntax.KindConstDecl:
			add(firstIdentToken(n), n.StartLine)
		}

		return true
	})

	return names
}

// firstIdentToken returns the token of the first identifier in the subtree.
// For a KindParam leaf (captured directly from a parameter container) the
// node's own token is the name.
func firstIdentToken(n *syntax.Node) string {
	if n.Token != "" && len(n.Children) == 0 {
		return n.Token
	}

	const searchDepth = 4

	token := ""

	syntax.Walk(n, searchDepth, func(child *syntax.Node, _ int) bool {
		if token != "" {
			return false
		}

		if child.Kind == syntax.KindIdent && child.Token != "" {
			token = child.Token

			return false
		}

		return true
	})

	return token
}

// packageGlobals returns identifiers declared at package level (variable
// declarations outside any function body) mapped to their declaration line.
func packageGlobals(root *syntax.Node) map[string]uint32 {
	globals := make(map[string]uint32)

	syntax.Walk(root, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind == syntax.KindFunction {
			return false // Everything below is local.
		}

		if n.Kind == syntax.KindVarDecl {
			if name := firstIdentToken(n); name != "" {
				if _, ok := globals[name]; !ok {
					globals[name] = n.StartLine
				}
			}
		}

		return true
	})

	return globals
}

// casingStyle classifies an identifier's naming convention.
type casingStyle uint8

const (
	styleNeutral casingStyle = iota // Single word, no signal either way.
	styleSnake
	styleCamel
)

// classifyCasing determines whether a name uses snake_case or camelCase.
func classifyCasing(name string) casingStyle {
	trimmed := strings.Trim(name, "_")
	if strings.Contains(trimmed, "_") {
		return styleSnake
	}

	hasLower := false

	for _, r := range name {
		if unicode.IsLower(r) {
			hasLower = true

			continue
		}

		if unicode.IsUpper(r) && hasLower {
			return styleCamel
		}
	}

	return styleNeutral
}

// calleeTokens returns the lowercased identifiers in the shallow front of a
// call node. Selector calls like time.Sleep contribute both components.
func calleeTokens(call *syntax.Node) []string {
	const calleeSearchDepth = 3

	var tokens []string

	syntax.Walk(call, calleeSearchDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind == syntax.KindCall && n != call {
			return false
		}

		if n.Kind == syntax.KindIdent && n.Token != "" {
			tokens = append(tokens, strings.ToLower(n.Token))
		}

		return true
	})

	return tokens
}
