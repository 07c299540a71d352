package syntax_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

const goSource = `package main

import "fmt"

func add(a, b int) int {
	return a + b
}

func main() {
	total := add(1, 2)
	fmt.Println(total)
}
`

const pySource = `def greet(name, punctuation):
    message = "hello " + name + punctuation
    return message
`

func parseFixture(t *testing.T, path, src string) *syntax.Unit {
	t.Helper()

	unit, err := syntax.NewParser().Parse(context.Background(), path, []byte(src), 42)
	require.NoError(t, err)
	require.NotNil(t, unit.Root)

	return unit
}

func TestParse_Go_FindsFunctions(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t, "main.go", goSource)

	assert.Equal(t, "go", unit.Lang)
	assert.True(t, unit.Valid(42))
	assert.False(t, unit.Valid(43))

	fns := syntax.Functions(unit.Root, 100)
	require.Len(t, fns, 2)
	assert.Equal(t, "add", syntax.FunctionName(fns[0]))
	assert.Equal(t, "main", syntax.FunctionName(fns[1]))
}

func TestParse_Go_ParamsAndReturns(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t, "main.go", goSource)
	fns := syntax.Functions(unit.Root, 100)

	var params, returns int

	syntax.Walk(fns[0], 100, func(n *syntax.Node, _ int) bool {
		switch n.Kind {
		case syntax.KindParam:
			params++
		case syntax.KindReturn:
			returns++
		}

		return true
	})

	// "a, b int" is a single parameter_declaration in the Go grammar.
	assert.GreaterOrEqual(t, params, 1)
	assert.Equal(t, 1, returns)
}

func TestParse_Python(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t, "greet.py", pySource)

	assert.Equal(t, "python", unit.Lang)

	fns := syntax.Functions(unit.Root, 100)
	require.Len(t, fns, 1)
	assert.Equal(t, "greet", syntax.FunctionName(fns[0]))
	assert.Equal(t, uint32(1), fns[0].StartLine)
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := syntax.NewParser().Parse(context.Background(), "notes.txt", []byte("plain text"), 0)
	require.ErrorIs(t, err, syntax.ErrUnsupportedLanguage)
}

func TestDetectLanguage_Extension(t *testing.T) {
	t.Parallel()

	lang, ok := syntax.DetectLanguage("pkg/cache.go", nil)
	require.True(t, ok)
	assert.Equal(t, "go", lang)

	_, ok = syntax.DetectLanguage("README.md", nil)
	assert.False(t, ok)
}

func TestWalk_DepthBound(t *testing.T) {
	t.Parallel()

	// A degenerate chain deeper than the bound.
	root := &syntax.Node{Kind: syntax.KindFile}
	cur := root

	for range 50 {
		child := &syntax.Node{Kind: syntax.KindBlock}
		cur.Children = []*syntax.Node{child}
		cur = child
	}

	visited := 0

	syntax.Walk(root, 10, func(_ *syntax.Node, depth int) bool {
		visited++

		require.Less(t, depth, 10)

		return true
	})

	assert.Equal(t, 10, visited)
}

func TestWalk_Prune(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t, "main.go", goSource)

	sawInsideFunction := false

	syntax.Walk(unit.Root, 100, func(n *syntax.Node, _ int) bool {
		if n.Kind == syntax.KindFunction {
			return false // Prune: nothing below a function should be visited.
		}

		if n.Kind == syntax.KindReturn {
			sawInsideFunction = true
		}

		return true
	})

	assert.False(t, sawInsideFunction)
}

func TestCountNodes(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t, "main.go", goSource)

	assert.Positive(t, syntax.CountNodes(unit.Root, 100))
	assert.Equal(t, 1, syntax.CountNodes(unit.Root, 1))
}
