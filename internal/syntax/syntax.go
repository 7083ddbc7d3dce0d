// Package syntax turns raw source bytes into a language-independent structural
// view: a tree of labeled nodes with byte ranges. One adapter per language;
// new languages register a grammar plus a small capability table and get the
// same tree shape out.
package syntax

import "fmt"

// Span is a half-open byte range [Start, End) into a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Node is one labeled node in a file's structural tree. Children are ordered
// by source position, contained within the parent's span, and non-overlapping.
// Gaps between children (whitespace, comments, punctuation) are normal and
// belong to whoever copies the parent's range.
//
// Body is the designated body sub-range for function/method-like nodes and nil
// for everything else. Whether the body range includes its delimiters (braces)
// is a per-language contract documented on the language table in languages.go.
type Node struct {
	Kind     string
	Span     Span
	Body     *Span
	Children []*Node
}

// Text returns the node's source text.
func (n *Node) Text(source []byte) string {
	return string(source[n.Span.Start:n.Span.End])
}

// ParseError reports a file that could not be parsed, with a best-effort
// location. Line and Column are 1-based; zero means unknown.
type ParseError struct {
	Language string
	Line     int
	Column   int
	Detail   string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error at %d:%d: %s", e.Language, e.Line, e.Column, e.Detail)
	}
	return fmt.Sprintf("%s parse error: %s", e.Language, e.Detail)
}

// Adapter parses one language into the structural view. Implementations are
// stateless with respect to their input: same bytes in, identical tree out,
// so trees may be built concurrently and results cached by content alone.
type Adapter interface {
	// Language returns the canonical language name ("go", "rust", ...).
	Language() string

	// Extensions returns the file extensions handled by this language,
	// including the leading dot.
	Extensions() []string

	// Placeholder returns the text substituted for an elided body. It is
	// chosen so that splicing it between the bytes before and after the
	// body sub-range yields parseable output for this language.
	Placeholder() string

	// Parse builds the structural tree for source. The root node's span is
	// [0, len(source)). A *ParseError is returned for input the grammar
	// cannot make sense of.
	Parse(source []byte) (*Node, error)
}
