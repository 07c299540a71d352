// Package syntax parses source files with tree-sitter and lowers the
// language-specific grammar trees into a small normalized node set that
// detectors and rules can walk without per-language knowledge.
package syntax

import "time"

// Kind is the normalized node category shared across languages.
type Kind uint8

// Normalized node kinds. Grammar types with no mapping lower to KindOther;
// their children are still visited.
const (
	KindOther Kind = iota
	KindFile
	KindFunction
	KindParam
	KindBlock
	KindCall
	KindIdent
	KindNumberLit
	KindStringLit
	KindAssign
	KindVarDecl
	KindConstDecl
	KindLoop
	KindCond
	KindReturn
	KindComment
)

// kindNames maps kinds to stable display names.
var kindNames = map[Kind]string{
	KindOther:     "other",
	KindFile:      "file",
	KindFunction:  "function",
	KindParam:     "param",
	KindBlock:     "block",
	KindCall:      "call",
	KindIdent:     "ident",
	KindNumberLit: "number",
	KindStringLit: "string",
	KindAssign:    "assign",
	KindVarDecl:   "var_decl",
	KindConstDecl: "const_decl",
	KindLoop:      "loop",
	KindCond:      "cond",
	KindReturn:    "return",
	KindComment:   "comment",
}

// String returns the stable display name of the kind.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "other"
	}

	return name
}

// Node is a normalized syntax tree node. Nodes are plain Go values with no
// handles into tree-sitter memory, so they are gob-serializable for the
// on-disk AST cache.
type Node struct {
	Kind      Kind
	Type      string // Raw grammar type, for language-specific heuristics.
	Token     string // Source text for identifier and literal leaves.
	StartLine uint32 // 1-based.
	EndLine   uint32 // 1-based, inclusive.
	Children  []*Node
}

// Unit is one parsed file. Its validity is tied to the content hash that
// produced it; a changed hash invalidates the unit.
type Unit struct {
	Path     string
	Lang     string
	Hash     uint64
	ParsedAt time.Time
	Root     *Node
}

// Valid reports whether the unit still corresponds to the given content hash.
func (u *Unit) Valid(hash uint64) bool {
	return u != nil && u.Hash == hash
}

// walkItem is a worklist entry for the iterative traversal.
type walkItem struct {
	node  *Node
	depth int
}

// Walk visits nodes in pre-order using an explicit worklist with a hard
// depth bound. Trees are normally acyclic, but the bound guarantees
// termination even against malformed tree data. visit returns false to
// prune the subtree below the visited node.
func Walk(root *Node, maxDepth int, visit func(n *Node, depth int) bool) {
	if root == nil || maxDepth <= 0 {
		return
	}

	stack := make([]walkItem, 0, 64)
	stack = append(stack, walkItem{node: root, depth: 0})

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(item.node, item.depth) {
			continue
		}

		if item.depth+1 >= maxDepth {
			continue
		}

		// Push children in reverse so they pop in source order.
		for i := len(item.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkItem{node: item.node.Children[i], depth: item.depth + 1})
		}
	}
}

// Functions returns all function nodes in the tree, in source order.
// Nested functions are included.
func Functions(root *Node, maxDepth int) []*Node {
	var fns []*Node

	Walk(root, maxDepth, func(n *Node, _ int) bool {
		if n.Kind == KindFunction {
			fns = append(fns, n)
		}

		return true
	})

	return fns
}

// FunctionName returns the declared name of a function node: the first
// identifier found in the shallow front of its subtree. Anonymous functions
// yield the empty string.
func FunctionName(fn *Node) string {
	const nameSearchDepth = 3

	name := ""

	Walk(fn, nameSearchDepth, func(n *Node, _ int) bool {
		if name != "" {
			return false
		}

		if n != fn && n.Kind == KindIdent && n.Token != "" {
			name = n.Token

			return false
		}

		// The name never lives inside a nested block.
		return n == fn || n.Kind != KindBlock
	})

	return name
}

// CountNodes returns the number of nodes in the subtree, bounded by maxDepth.
func CountNodes(root *Node, maxDepth int) int {
	count := 0

	Walk(root, maxDepth, func(_ *Node, _ int) bool {
		count++

		return true
	})

	return count
}
