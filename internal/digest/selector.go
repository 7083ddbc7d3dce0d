package digest

import (
	"fmt"
	"sort"

	"github.com/asimihsan/code-digest/internal/syntax"
)

// Decision is a resolved (range, action) pair for one matched node. For
// ActionElideBody the node's body sub-range is recorded so reconstruction
// knows which bytes the placeholder replaces.
type Decision struct {
	Span   syntax.Span
	Action Action
	Body   *syntax.Span
}

// MatchAll walks the tree root to leaves, children in source order, and
// assigns each node the action of its first matching rule. A matched node
// ends matching for its whole subtree: the decision covers every byte under
// it, so descendants are never decided independently and nested
// contradictions cannot arise. Unmatched nodes contribute no decision; their
// bytes survive through gap copying.
//
// The returned decisions are sorted by start offset and verified pairwise
// non-overlapping. An overlap means an adapter broke its containment
// guarantee and is reported as ErrConflictingDecisions.
func MatchAll(root *syntax.Node, rules *RuleSet) ([]Decision, error) {
	var decisions []Decision

	var walk func(node *syntax.Node, ancestors []string)
	walk = func(node *syntax.Node, ancestors []string) {
		if rule, ok := rules.match(node, ancestors); ok {
			decisions = append(decisions, newDecision(node, rule.Action))
			return
		}

		ancestors = append(ancestors, node.Kind)
		for _, child := range node.Children {
			walk(child, ancestors)
		}
	}
	walk(root, nil)

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Span.Start < decisions[j].Span.Start
	})

	for i := 1; i < len(decisions); i++ {
		prev, cur := decisions[i-1], decisions[i]
		if prev.Span.Overlaps(cur.Span) {
			return nil, fmt.Errorf("%w: [%d,%d) overlaps [%d,%d)",
				ErrConflictingDecisions, prev.Span.Start, prev.Span.End, cur.Span.Start, cur.Span.End)
		}
	}

	return decisions, nil
}

// newDecision builds the decision for a matched node. ElideBody on a node
// without a recorded body sub-range (a trait signature, an abstract method)
// degrades to Keep: there is nothing to elide and the whole node is its own
// signature.
func newDecision(node *syntax.Node, action Action) Decision {
	if action == ActionElideBody && node.Body == nil {
		action = ActionKeep
	}

	d := Decision{Span: node.Span, Action: action}
	if action == ActionElideBody {
		d.Body = node.Body
	}
	return d
}
