package syntax

import (
	"context"
	"errors"
	"fmt"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parsing limits.
const (
	// maxLowerDepth bounds tree lowering so that pathologically deep or
	// malformed parse trees cannot exhaust the stack or loop forever.
	maxLowerDepth = 512

	// maxTokenLen caps captured leaf tokens; longer literals are truncated.
	maxTokenLen = 256
)

// Sentinel parser errors.
var (
	// ErrUnsupportedLanguage is returned for files no grammar can parse.
	ErrUnsupportedLanguage = errors.New("syntax: unsupported language")

	// ErrParseFailed is returned when tree-sitter produced no tree.
	ErrParseFailed = errors.New("syntax: parse failed")
)

// Parser turns file contents into normalized [Unit] trees.
// It is stateless and safe for concurrent use: every Parse call creates its
// own tree-sitter parser, since those are not safe to share across goroutines.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses content as the detected language of path and returns the
// normalized unit stamped with the given content hash.
func (p *Parser) Parse(ctx context.Context, path string, content []byte, hash uint64) (*Unit, error) {
	lang, ok := DetectLanguage(path, content)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	grammar, ok := grammarFor(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailed, path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty tree", ErrParseFailed, path)
	}

	return &Unit{
		Path:     path,
		Lang:     lang,
		Hash:     hash,
		ParsedAt: time.Now(),
		Root:     lower(root, content, lang),
	}, nil
}

// lowerItem carries one pending sitter node through the iterative lowering.
type lowerItem struct {
	src    *sitter.Node
	parent *Node
	depth  int
}

// lower converts a tree-sitter tree into normalized nodes using an explicit
// worklist bounded by maxLowerDepth.
func lower(root *sitter.Node, content []byte, lang string) *Node {
	table := kindTable(lang)
	containers := paramContainers[lang]

	out := newNode(root, content, table, false)

	stack := make([]lowerItem, 0, 64)
	stack = append(stack, lowerItem{src: root, parent: out, depth: 0})

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth+1 >= maxLowerDepth {
			continue
		}

		childInPars := containers[item.src.Type()]

		count := int(item.src.NamedChildCount())
		for i := range count {
			child := item.src.NamedChild(i)
			if child == nil {
				continue
			}

			lowered := newNode(child, content, table, childInPars)
			item.parent.Children = append(item.parent.Children, lowered)

			stack = append(stack, lowerItem{
				src:    child,
				parent: lowered,
				depth:  item.depth + 1,
			})
		}
	}

	return out
}

// newNode builds a normalized node from a sitter node.
func newNode(src *sitter.Node, content []byte, table map[string]Kind, inParamContainer bool) *Node {
	kind := table[src.Type()]

	// Plain identifiers directly inside a parameter container are
	// positional parameters (Python, JavaScript, Ruby declare them so).
	if inParamContainer && kind == KindIdent {
		kind = KindParam
	}

	n := &Node{
		Kind:      kind,
		Type:      src.Type(),
		StartLine: src.StartPoint().Row + 1,
		EndLine:   src.EndPoint().Row + 1,
	}

	if capturesToken(kind) {
		token := src.Content(content)
		if len(token) > maxTokenLen {
			token = token[:maxTokenLen]
		}

		n.Token = token
	}

	return n
}

// capturesToken reports whether the node kind carries its source text.
func capturesToken(kind Kind) bool {
	switch kind {
	case KindIdent, KindParam, KindNumberLit, KindStringLit:
		return true
	default:
		return false
	}
}
