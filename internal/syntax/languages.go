package syntax

import (
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Placeholders per comment style. For brace languages the body sub-range
// includes the braces, so the placeholder supplies fresh ones and the space
// before the opening brace survives in the verbatim prefix. Python's body is
// the indented suite and the placeholder must be a statement; Ruby's body
// excludes def/end, which stay in the surrounding verbatim copy.
const (
	bracePlaceholder  = "{\n\t// ...\n}"
	pythonPlaceholder = "..."
	rubyPlaceholder   = "# ..."
)

// bodyTable maps each function-like kind to the one body kind it accepts.
func bodyTable(bodyKind string, kinds ...string) map[string]string {
	bodies := make(map[string]string, len(kinds))
	for _, kind := range kinds {
		bodies[kind] = bodyKind
	}
	return bodies
}

// languageSpecs lists every supported language. JavaScript and TSX reuse the
// TypeScript grammar family: plain TypeScript parses JavaScript, and the TSX
// variant parses JSX syntax.
func languageSpecs() []languageSpec {
	tsGrammar := sitter.NewLanguage(typescript.LanguageTypescript())
	tsxGrammar := sitter.NewLanguage(typescript.LanguageTSX())

	return []languageSpec{
		{
			name:        "go",
			grammar:     sitter.NewLanguage(golang.Language()),
			extensions:  []string{".go"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("block", "function_declaration", "method_declaration"),
		},
		{
			name:        "rust",
			grammar:     sitter.NewLanguage(rust.Language()),
			extensions:  []string{".rs"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("block", "function_item"),
		},
		{
			name:        "python",
			grammar:     sitter.NewLanguage(python.Language()),
			extensions:  []string{".py"},
			placeholder: pythonPlaceholder,
			bodies:      bodyTable("block", "function_definition"),
		},
		{
			name:        "java",
			grammar:     sitter.NewLanguage(java.Language()),
			extensions:  []string{".java"},
			placeholder: bracePlaceholder,
			bodies: map[string]string{
				"method_declaration":      "block",
				"constructor_declaration": "constructor_body",
			},
		},
		{
			name:        "typescript",
			grammar:     tsGrammar,
			extensions:  []string{".ts"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("statement_block", "function_declaration", "method_definition"),
		},
		{
			name:        "tsx",
			grammar:     tsxGrammar,
			extensions:  []string{".tsx", ".jsx"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("statement_block", "function_declaration", "method_definition"),
		},
		{
			name:        "javascript",
			grammar:     tsGrammar,
			extensions:  []string{".js", ".mjs"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("statement_block", "function_declaration", "method_definition"),
		},
		{
			name:        "c",
			grammar:     sitter.NewLanguage(c.Language()),
			extensions:  []string{".c", ".h"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("compound_statement", "function_definition"),
		},
		{
			name:        "ruby",
			grammar:     sitter.NewLanguage(ruby.Language()),
			extensions:  []string{".rb"},
			placeholder: rubyPlaceholder,
			bodies:      bodyTable("body_statement", "method", "singleton_method"),
		},
		{
			name:        "php",
			grammar:     sitter.NewLanguage(php.LanguagePHP()),
			extensions:  []string{".php"},
			placeholder: bracePlaceholder,
			bodies:      bodyTable("compound_statement", "function_definition", "method_declaration"),
		},
	}
}

var (
	adaptersByName = make(map[string]Adapter)
	languageByExt  = make(map[string]string)
)

func init() {
	for _, spec := range languageSpecs() {
		adapter := newTreeSitterAdapter(spec)
		adaptersByName[spec.name] = adapter
		for _, ext := range spec.extensions {
			languageByExt[ext] = spec.name
		}
	}
}

// Lookup returns the adapter registered for a language name.
func Lookup(language string) (Adapter, bool) {
	adapter, ok := adaptersByName[language]
	return adapter, ok
}

// Supported reports whether a language has a registered adapter.
func Supported(language string) bool {
	_, ok := adaptersByName[language]
	return ok
}

// Languages returns all registered language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(adaptersByName))
	for name := range adaptersByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromExtension maps a file extension (with leading dot) to its language
// name. The second return is false for extensions no adapter claims.
func FromExtension(ext string) (string, bool) {
	language, ok := languageByExt[ext]
	return language, ok
}

// Extensions returns every extension claimed by a registered adapter,
// sorted, with leading dots.
func Extensions() []string {
	exts := make([]string, 0, len(languageByExt))
	for ext := range languageByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
