package digest

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimihsan/code-digest/internal/syntax"
)

// Test Plan for Reconstruct:
// - Empty decision set reproduces the source byte for byte
// - A single all-covering Keep decision reproduces the source
// - Omit drops the range while surrounding gaps survive
// - ElideBody keeps the prefix and suffix and emits the placeholder once
// - Gaps between decisions are copied verbatim
// - Decisions touching the start and end of the file splice cleanly
// - Elision never grows the output beyond the original range

// assertTextEqual fails with a unified diff so splicing mistakes stay
// readable in test output.
func assertTextEqual(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        strings.SplitAfter(expected, "\n"),
		B:        strings.SplitAfter(actual, "\n"),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	require.NoError(t, err)
	t.Fatalf("reconstructed text mismatch:\n%s", diff)
}

func span(start, end int) syntax.Span {
	return syntax.Span{Start: start, End: end}
}

// Test: no decisions means identity
func TestReconstruct_EmptyDecisions(t *testing.T) {
	t.Parallel()

	source := []byte("package x\n\n// untouched\nvar A = 1\n")
	out := Reconstruct(source, nil, "{\n\t// ...\n}")
	assertTextEqual(t, string(source), out)
}

// Test: one Keep decision over the whole file means identity
func TestReconstruct_KeepAllRoundTrip(t *testing.T) {
	t.Parallel()

	source := []byte("fn main() {\n    println!(\"hi\");\n}\n")
	decisions := []Decision{{Span: span(0, len(source)), Action: ActionKeep}}

	out := Reconstruct(source, decisions, "{\n\t// ...\n}")
	assertTextEqual(t, string(source), out)
}

// Test: omit drops exactly the decision's range
func TestReconstruct_Omit(t *testing.T) {
	t.Parallel()

	source := []byte("keep1 DROP keep2")
	decisions := []Decision{{Span: span(6, 10), Action: ActionOmit}}

	out := Reconstruct(source, decisions, "")
	assertTextEqual(t, "keep1  keep2", out)
	assert.NotContains(t, out, "DROP")
}

// Test: elide splices prefix, placeholder, suffix
func TestReconstruct_ElideBody(t *testing.T) {
	t.Parallel()

	source := []byte("fn f() { body } trailer")
	body := span(7, 15)
	decisions := []Decision{{Span: span(0, 15), Action: ActionElideBody, Body: &body}}

	out := Reconstruct(source, decisions, "{ /* gone */ }")
	assertTextEqual(t, "fn f() { /* gone */ } trailer", out)
	assert.Equal(t, 1, strings.Count(out, "/* gone */"), "placeholder appears exactly once")
}

// Test: body sub-range excluding delimiters keeps the suffix verbatim
func TestReconstruct_ElideInnerBody(t *testing.T) {
	t.Parallel()

	source := []byte("def f():\n    work()\nrest")
	body := span(13, 19)
	decisions := []Decision{{Span: span(0, 19), Action: ActionElideBody, Body: &body}}

	out := Reconstruct(source, decisions, "...")
	assertTextEqual(t, "def f():\n    ...\nrest", out)
}

// Test: gaps between decisions are copied verbatim
func TestReconstruct_GapsBetweenDecisions(t *testing.T) {
	t.Parallel()

	source := []byte("AAA gap BBB gap CCC")
	decisions := []Decision{
		{Span: span(0, 3), Action: ActionKeep},
		{Span: span(8, 11), Action: ActionOmit},
		{Span: span(16, 19), Action: ActionKeep},
	}

	out := Reconstruct(source, decisions, "")
	assertTextEqual(t, "AAA gap  gap CCC", out)
}

// Test: decisions at the very start and end of the file
func TestReconstruct_FileBoundaries(t *testing.T) {
	t.Parallel()

	source := []byte("HEAD middle TAIL")
	decisions := []Decision{
		{Span: span(0, 4), Action: ActionOmit},
		{Span: span(12, 16), Action: ActionOmit},
	}

	out := Reconstruct(source, decisions, "")
	assertTextEqual(t, " middle ", out)
}

// Test: elision output never exceeds the original range
func TestReconstruct_ElisionShrinks(t *testing.T) {
	t.Parallel()

	source := []byte("fn f() {\n    a();\n    b();\n    c();\n    d();\n}\n")
	body := span(7, len(source)-1)
	decisions := []Decision{{Span: span(0, len(source)-1), Action: ActionElideBody, Body: &body}}

	out := Reconstruct(source, decisions, "{\n\t// ...\n}")
	assert.LessOrEqual(t, len(out), len(source))
	assert.Equal(t, "fn f() {\n\t// ...\n}\n", out)
}
