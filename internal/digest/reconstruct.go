package digest

import "strings"

// Reconstruct splices the digest text for one file from its original bytes
// and the sorted, non-overlapping decisions. Bytes between decisions are
// copied verbatim, which is what keeps unmatched regions (imports, comments,
// type declarations, whitespace) intact. With no decisions, or all-Keep
// decisions, the output is byte-identical to the source.
//
// The placeholder is the language's body substitute. Whether it must supply
// fresh delimiters depends on the adapter's body contract: brace languages
// include the braces in the body sub-range, so the placeholder carries its
// own; Python and Ruby keep the surrounding syntax in the verbatim copy.
func Reconstruct(source []byte, decisions []Decision, placeholder string) string {
	var b strings.Builder
	b.Grow(len(source))

	cursor := 0
	for _, d := range decisions {
		if d.Span.Start > cursor {
			b.Write(source[cursor:d.Span.Start])
		}

		switch d.Action {
		case ActionKeep:
			b.Write(source[d.Span.Start:d.Span.End])
		case ActionOmit:
			// The range contributes nothing. Surrounding gaps are still
			// copied, so neighbouring spacing survives.
		case ActionElideBody:
			b.Write(source[d.Span.Start:d.Body.Start])
			b.WriteString(placeholder)
			b.Write(source[d.Body.End:d.Span.End])
		}

		cursor = d.Span.End
	}

	if cursor < len(source) {
		b.Write(source[cursor:])
	}

	return b.String()
}
