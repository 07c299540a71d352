package rules

import (
	"strings"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// functionLines is the inclusive line span of a function node.
func functionLines(fn *syntax.Node) int {
	return int(fn.EndLine-fn.StartLine) + 1
}

// functionLabel names a function for rule messages.
func functionLabel(fn *syntax.Node) string {
	if name := syntax.FunctionName(fn); name != "" {
		return name
	}

	return "anonymous function"
}

// maxNesting measures the deepest loop/conditional nesting inside fn,
// ignoring nested function literals. The walk is iterative and bounded by
// the tree depth limit.
func maxNesting(fn *syntax.Node) int {
	type frame struct {
		node  *syntax.Node
		nest  int
		depth int
	}

	deepest := 0
	stack := []frame{{node: fn}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= maxWalkDepth {
			continue
		}

		nest := top.nest
		if top.node.Kind == syntax.KindLoop || top.node.Kind == syntax.KindCond {
			nest++

			if nest > deepest {
				deepest = nest
			}
		}

		for _, child := range top.node.Children {
			if child.Kind == syntax.KindFunction {
				continue
			}

			stack = append(stack, frame{node: child, nest: nest, depth: top.depth + 1})
		}
	}

	return deepest
}

// callTargets returns the lowercased identifiers in the shallow front of a
// call node. Selector calls contribute both components; nested calls are
// not descended into.
func callTargets(call *syntax.Node) []string {
	const targetSearchDepth = 3

	var targets []string

	syntax.Walk(call, targetSearchDepth, func(n *syntax.Node, _ int) bool {
		if n.Kind == syntax.KindCall && n != call {
			return false
		}

		if n.Kind == syntax.KindIdent && n.Token != "" {
			targets = append(targets, strings.ToLower(n.Token))
		}

		return true
	})

	return targets
}

// callsTarget reports whether any call inside fn targets the given
// lowercased name, ignoring nested function literals.
func callsTarget(fn *syntax.Node, name string) bool {
	found := false

	syntax.Walk(fn, maxWalkDepth, func(n *syntax.Node, _ int) bool {
		if found {
			return false
		}

		if n != fn && n.Kind == syntax.KindFunction {
			return false
		}

		if n.Kind != syntax.KindCall {
			return true
		}

		for _, target := range callTargets(n) {
			if target == name {
				found = true

				return false
			}
		}

		return true
	})

	return found
}
