// Package render writes digest results as a markdown document.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/asimihsan/code-digest/internal/digest"
)

// Options controls document layout.
type Options struct {
	// Tree is a directory listing to prepend in its own fenced block.
	// Empty means no tree block.
	Tree string
}

// Write renders digests in path order: an optional tree block, then one
// backticked path line and language-tagged fenced code block per file,
// with a blank line between entries.
func Write(w io.Writer, digests []digest.Digest, opts Options) error {
	bw := bufio.NewWriter(w)

	if opts.Tree != "" {
		bw.WriteString("```\n")
		bw.WriteString(opts.Tree)
		if !strings.HasSuffix(opts.Tree, "\n") {
			bw.WriteByte('\n')
		}
		bw.WriteString("```\n")
		if len(digests) > 0 {
			bw.WriteByte('\n')
		}
	}

	for i, d := range digests {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fence := fenceFor(d.Text)
		fmt.Fprintf(bw, "`%s`\n", d.Path)
		fmt.Fprintf(bw, "%s%s\n", fence, d.Language)
		bw.WriteString(d.Text)
		if d.Text != "" && !strings.HasSuffix(d.Text, "\n") {
			bw.WriteByte('\n')
		}
		bw.WriteString(fence)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Summary reports the run outcome with one line per failed file. It is
// meant for stderr so the document on stdout stays clean.
func Summary(w io.Writer, digested int, failures []digest.FileError) {
	fmt.Fprintf(w, "%d files digested, %d failed\n", digested, len(failures))
	for _, fe := range failures {
		fmt.Fprintf(w, "  %s: %s: %s\n", fe.Path, fe.Kind, fe.Detail())
	}
}

// fenceFor picks a fence longer than any backtick run in the content so
// raw passthrough files with their own fences cannot break the document.
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
