package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/code-digest/internal/digest"
)

// Test Plan for the markdown writer:
// - One digest renders a path line plus a tagged fence
// - Multiple digests are separated by a blank line
// - The tree listing gets its own untagged fence before the digests
// - Content containing fences gets a longer outer fence
// - Content without a trailing newline still closes cleanly
// - The summary prints counts and one reason per failure

// Test: single digest document
func TestWrite_SingleDigest(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, []digest.Digest{
		{Path: "main.go", Language: "go", Text: "package main\n"},
	}, Options{})
	require.NoError(t, err)

	expected := "`main.go`\n" +
		"```go\n" +
		"package main\n" +
		"```\n"
	assert.Equal(t, expected, b.String())
}

// Test: blank line between digests
func TestWrite_MultipleDigests(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, []digest.Digest{
		{Path: "a.go", Language: "go", Text: "package a\n"},
		{Path: "b.rs", Language: "rust", Text: "pub struct B;\n"},
	}, Options{})
	require.NoError(t, err)

	expected := "`a.go`\n" +
		"```go\n" +
		"package a\n" +
		"```\n" +
		"\n" +
		"`b.rs`\n" +
		"```rust\n" +
		"pub struct B;\n" +
		"```\n"
	assert.Equal(t, expected, b.String())
}

// Test: tree listing leads the document in its own fence
func TestWrite_TreeBlock(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, []digest.Digest{
		{Path: "main.go", Language: "go", Text: "package main\n"},
	}, Options{Tree: ".\n└── main.go\n"})
	require.NoError(t, err)

	expected := "```\n" +
		".\n" +
		"└── main.go\n" +
		"```\n" +
		"\n" +
		"`main.go`\n" +
		"```go\n" +
		"package main\n" +
		"```\n"
	assert.Equal(t, expected, b.String())
}

// Test: content with its own fences gets a longer outer fence
func TestWrite_FenceCollision(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, []digest.Digest{
		{Path: "README.md", Language: "md", Text: "# Readme\n```go\nfunc X()\n```\n"},
	}, Options{})
	require.NoError(t, err)

	expected := "`README.md`\n" +
		"````md\n" +
		"# Readme\n" +
		"```go\n" +
		"func X()\n" +
		"```\n" +
		"````\n"
	assert.Equal(t, expected, b.String())
}

// Test: missing trailing newline still closes the fence on its own line
func TestWrite_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, []digest.Digest{
		{Path: "g.py", Language: "python", Text: "x = 1"},
	}, Options{})
	require.NoError(t, err)

	expected := "`g.py`\n" +
		"```python\n" +
		"x = 1\n" +
		"```\n"
	assert.Equal(t, expected, b.String())
}

// Test: nothing to render produces nothing
func TestWrite_Empty(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	err := Write(&b, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", b.String())
}

// Test: write errors surface
func TestWrite_Error(t *testing.T) {
	t.Parallel()

	err := Write(failWriter{}, []digest.Digest{
		{Path: "main.go", Language: "go", Text: strings.Repeat("x", 1<<16)},
	}, Options{})
	require.Error(t, err)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

// Test: summary prints counts and per-file reasons
func TestSummary(t *testing.T) {
	t.Parallel()

	failures := []digest.FileError{
		{Path: "b/broken.go", Kind: digest.ErrorParse, Err: errors.New("go parse error at 3:13: syntax error")},
	}

	var b strings.Builder
	Summary(&b, 3, failures)

	expected := "3 files digested, 1 failed\n" +
		"  b/broken.go: parse_error: go parse error at 3:13: syntax error\n"
	assert.Equal(t, expected, b.String())
}

// Test: clean run summary
func TestSummary_Clean(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	Summary(&b, 2, nil)
	assert.Equal(t, "2 files digested, 0 failed\n", b.String())
}
