package syntax

import (
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// languageSpec declares everything the generic tree-sitter adapter needs to
// know about one language: its grammar, the extensions it claims, the node
// kinds that carry an elidable body, and the placeholder spliced in when a
// body is elided.
type languageSpec struct {
	name        string
	grammar     *sitter.Language
	extensions  []string
	placeholder string

	// bodies maps a function-like node kind to the kind its "body" field
	// child must have for the body sub-range to be recorded. A body child
	// of any other kind (an expression-bodied arrow function, for example)
	// leaves Body nil and the node is treated as having no elidable body.
	bodies map[string]string
}

// treeSitterAdapter implements Adapter for a single languageSpec.
type treeSitterAdapter struct {
	spec languageSpec
}

func newTreeSitterAdapter(spec languageSpec) *treeSitterAdapter {
	return &treeSitterAdapter{spec: spec}
}

func (a *treeSitterAdapter) Language() string {
	return a.spec.name
}

func (a *treeSitterAdapter) Extensions() []string {
	return a.spec.extensions
}

func (a *treeSitterAdapter) Placeholder() string {
	return a.spec.placeholder
}

// Parse parses source into a structural tree. The tree-sitter tree is walked
// once and converted into Nodes; only named nodes are kept, so punctuation
// and keywords show up as gaps inside their parent's span.
func (a *treeSitterAdapter) Parse(source []byte) (*Node, error) {
	if !utf8.Valid(source) {
		return nil, &ParseError{Language: a.spec.name, Detail: "source is not valid UTF-8"}
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(a.spec.grammar)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Language: a.spec.name, Detail: "parser produced no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, a.parseErrorAt(root)
	}

	converted := a.convert(root)

	// The grammar's root rule stops at the last token; the structural root
	// must span the entire file so trailing bytes stay covered.
	converted.Span = Span{Start: 0, End: len(source)}

	return converted, nil
}

// convert maps a tree-sitter node and its named descendants onto Nodes,
// recording the body sub-range for function-like kinds.
func (a *treeSitterAdapter) convert(node *sitter.Node) *Node {
	result := &Node{
		Kind: node.Kind(),
		Span: Span{Start: int(node.StartByte()), End: int(node.EndByte())},
	}

	if bodyKind, ok := a.spec.bodies[result.Kind]; ok {
		if body := bodyChild(node, bodyKind); body != nil {
			span := Span{Start: int(body.StartByte()), End: int(body.EndByte())}
			result.Body = &span
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		result.Children = append(result.Children, a.convert(child))
	}

	return result
}

// bodyChild resolves the body child of a function-like node: the "body"
// field when the grammar names one, otherwise the first named child of the
// accepted kind. A body field of the wrong kind (an expression rather than a
// block) means there is nothing elidable.
func bodyChild(node *sitter.Node, bodyKind string) *sitter.Node {
	if body := node.ChildByFieldName("body"); body != nil {
		if body.Kind() == bodyKind {
			return body
		}
		return nil
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(uint(i)); child.Kind() == bodyKind {
			return child
		}
	}
	return nil
}

// parseErrorAt locates the first ERROR or missing node under root and turns
// its position into a ParseError.
func (a *treeSitterAdapter) parseErrorAt(root *sitter.Node) *ParseError {
	errNode := findErrorNode(root)
	if errNode == nil {
		errNode = root
	}

	detail := "syntax error"
	if errNode.IsMissing() {
		detail = "missing " + errNode.Kind()
	}

	pos := errNode.StartPosition()
	return &ParseError{
		Language: a.spec.name,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Detail:   detail,
	}
}

// findErrorNode returns the first ERROR or missing node in a preorder walk,
// or nil if the subtree carries no error flag.
func findErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findErrorNode(node.Child(uint(i))); found != nil {
			return found
		}
	}
	return nil
}
