package syntax

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/src-d/enry/v2"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".rs":   "rust",
	".c":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".rb":   "ruby",
}

// enryToLanguage maps enry's classifier names to our canonical names, for
// files whose extension alone is ambiguous (e.g. ".h").
var enryToLanguage = map[string]string{
	"Go":         "go",
	"Python":     "python",
	"JavaScript": "javascript",
	"TypeScript": "typescript",
	"Java":       "java",
	"Rust":       "rust",
	"C":          "c",
	"C++":        "cpp",
	"Ruby":       "ruby",
}

// langToGrammar maps canonical language names to tree-sitter grammars.
// Lazily initialized on first use.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"go":         golang.GetLanguage(),
			"python":     python.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"java":       java.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
		}
	})
}

// DetectLanguage returns the canonical language name for a file. The
// extension table is authoritative; for unmapped extensions the content is
// classified with enry. Returns ("", false) when the language is not one we
// can parse.
func DetectLanguage(path string, content []byte) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extToLanguage[ext]; ok {
		return lang, true
	}

	if len(content) == 0 {
		return "", false
	}

	lang, ok := enryToLanguage[enry.GetLanguage(filepath.Base(path), content)]

	return lang, ok
}

// IsSupported reports whether the file's extension maps to a parseable
// language without inspecting content.
func IsSupported(path string) bool {
	_, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]

	return ok
}

// grammarFor returns the tree-sitter grammar for a canonical language name.
func grammarFor(lang string) (*sitter.Language, bool) {
	initGrammars()

	g, ok := langToGrammar[lang]

	return g, ok
}
