package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the language registry:
// - All supported languages are registered and listed sorted
// - Extension lookup resolves every declared extension
// - Unknown names and extensions are rejected
// - Placeholders match each language's comment syntax

// Test: registry lists every language, sorted
func TestLanguages_Registered(t *testing.T) {
	t.Parallel()

	languages := Languages()
	expected := []string{"c", "go", "java", "javascript", "php", "python", "ruby", "rust", "tsx", "typescript"}
	assert.Equal(t, expected, languages)

	for _, name := range languages {
		adapter, ok := Lookup(name)
		require.True(t, ok)
		assert.Equal(t, name, adapter.Language())
		assert.NotEmpty(t, adapter.Extensions(), "%s should claim at least one extension", name)
		assert.NotEmpty(t, adapter.Placeholder(), "%s should define a placeholder", name)
		assert.True(t, Supported(name))
	}
}

// Test: extension mapping covers declared extensions
func TestLanguages_FromExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext      string
		language string
		ok       bool
	}{
		{".go", "go", true},
		{".rs", "rust", true},
		{".py", "python", true},
		{".java", "java", true},
		{".ts", "typescript", true},
		{".tsx", "tsx", true},
		{".jsx", "tsx", true},
		{".js", "javascript", true},
		{".mjs", "javascript", true},
		{".c", "c", true},
		{".h", "c", true},
		{".rb", "ruby", true},
		{".php", "php", true},
		{".md", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		language, ok := FromExtension(tt.ext)
		assert.Equal(t, tt.ok, ok, "extension %q", tt.ext)
		assert.Equal(t, tt.language, language, "extension %q", tt.ext)
	}
}

// Test: extension list is sorted and round-trips through FromExtension
func TestLanguages_Extensions(t *testing.T) {
	t.Parallel()

	exts := Extensions()
	require.NotEmpty(t, exts)
	assert.IsIncreasing(t, exts)
	assert.Contains(t, exts, ".go")
	assert.Contains(t, exts, ".rs")
	assert.Contains(t, exts, ".jsx")

	for _, ext := range exts {
		_, ok := FromExtension(ext)
		assert.True(t, ok, "extension %q", ext)
	}
}

// Test: unknown language is not supported
func TestLanguages_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := Lookup("cobol")
	assert.False(t, ok)
	assert.False(t, Supported("cobol"))
}

// Test: placeholders match comment syntax
func TestLanguages_Placeholders(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"go", "rust", "java", "typescript", "tsx", "javascript", "c", "php"} {
		adapter, ok := Lookup(name)
		require.True(t, ok)
		assert.Equal(t, "{\n\t// ...\n}", adapter.Placeholder(), "brace language %s", name)
	}

	python, _ := Lookup("python")
	assert.Equal(t, "...", python.Placeholder())

	ruby, _ := Lookup("ruby")
	assert.Equal(t, "# ...", ruby.Placeholder())
}
