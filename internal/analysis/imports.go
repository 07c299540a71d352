package analysis

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/couplint/internal/syntax"
	"github.com/Sumatoshi-tech/couplint/pkg/alg/mapx"
)

// Import scanning limits.
const (
	// maxImportScanDepth bounds the whole-tree search for import nodes.
	maxImportScanDepth = 64

	// maxImportNodeDepth bounds target extraction under one import node.
	maxImportNodeDepth = 8
)

// linkImports records file-level dependency edges from each unit's import
// declarations, so invalidating one file between runs cascades to the
// files that import it.
func (a *Analyzer) linkImports(units []*syntax.Unit) {
	idx := newImportIndex(units)

	for _, unit := range units {
		for _, ref := range importRefs(unit.Root) {
			for _, target := range idx.resolve(unit.Path, ref) {
				if target != unit.Path {
					a.delta.AddDependency(target, unit.Path)
				}
			}
		}
	}
}

// importRefs extracts raw import targets from a unit: quoted paths (Go,
// JavaScript, TypeScript) and dotted module names (Python). Targets that
// resolve to nothing in the analyzed tree simply produce no edge.
func importRefs(root *syntax.Node) []string {
	var refs []string

	syntax.Walk(root, maxImportScanDepth, func(n *syntax.Node, _ int) bool {
		if !strings.Contains(n.Type, "import") {
			return true
		}

		refs = append(refs, importTargets(n)...)

		return false
	})

	return refs
}

// importTargets collects the modules referenced under one import node.
func importTargets(importNode *syntax.Node) []string {
	var targets []string

	syntax.Walk(importNode, maxImportNodeDepth, func(n *syntax.Node, _ int) bool {
		switch {
		case n.Kind == syntax.KindStringLit:
			if ref := trimQuotes(n.Token); ref != "" {
				targets = append(targets, ref)
			}

			return false
		case n.Type == "dotted_name":
			if ref := dottedName(n); ref != "" {
				targets = append(targets, ref)
			}

			return false
		}

		return true
	})

	return targets
}

// dottedName joins a dotted module node's identifier parts.
func dottedName(n *syntax.Node) string {
	var parts []string

	for _, child := range n.Children {
		if child.Kind == syntax.KindIdent && child.Token != "" {
			parts = append(parts, child.Token)
		}
	}

	return strings.Join(parts, ".")
}

// trimQuotes strips the surrounding quote pair from a string literal token.
func trimQuotes(token string) string {
	if len(token) < 2 {
		return ""
	}

	switch token[0] {
	case '"', '\'', '`':
		if token[len(token)-1] == token[0] {
			return token[1 : len(token)-1]
		}
	}

	return token
}

// importIndex resolves import targets against the discovered file set.
type importIndex struct {
	// noExt maps each unit's slash path minus its extension to the unit
	// paths stored under it.
	noExt map[string][]string

	// byDir maps each slash directory to the unit paths inside it, for
	// package-style imports that name a directory.
	byDir map[string][]string
}

func newImportIndex(units []*syntax.Unit) *importIndex {
	idx := &importIndex{
		noExt: make(map[string][]string, len(units)),
		byDir: make(map[string][]string),
	}

	for _, unit := range units {
		slashed := filepath.ToSlash(unit.Path)
		key := strings.TrimSuffix(slashed, path.Ext(slashed))
		dir := path.Dir(slashed)

		idx.noExt[key] = append(idx.noExt[key], unit.Path)
		idx.byDir[dir] = append(idx.byDir[dir], unit.Path)
	}

	return idx
}

// resolve maps one import target to the analyzed files it names. A relative
// target resolves against the importer's directory; a bare module name
// matches files and directories by path suffix, since imports name modules
// from a root the discovery paths only share a suffix with. The result is
// sorted so repeated runs record edges in the same order.
func (x *importIndex) resolve(importer, ref string) []string {
	if ref == "" {
		return nil
	}

	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		dir := path.Dir(filepath.ToSlash(importer))
		cand := path.Join(dir, ref)

		return append([]string(nil), x.noExt[strings.TrimSuffix(cand, path.Ext(cand))]...)
	}

	cand := strings.ReplaceAll(ref, ".", "/")

	var out []string

	for _, key := range mapx.SortedKeys(x.noExt) {
		if key == cand || strings.HasSuffix(key, "/"+cand) {
			out = append(out, x.noExt[key]...)
		}
	}

	for _, dir := range mapx.SortedKeys(x.byDir) {
		if dir == cand || strings.HasSuffix(dir, "/"+cand) {
			out = append(out, x.byDir[dir]...)
		}
	}

	sort.Strings(out)

	return out
}
