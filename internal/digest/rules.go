package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/asimihsan/code-digest/internal/syntax"
)

// Action is the treatment assigned to a matched node.
type Action string

const (
	// ActionKeep emits the node's source text unchanged.
	ActionKeep Action = "keep"
	// ActionElideBody keeps the node up to its body sub-range, replaces
	// the body with the language's placeholder, and keeps what follows.
	ActionElideBody Action = "elide"
	// ActionOmit emits nothing for the node's range.
	ActionOmit Action = "omit"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionKeep, ActionElideBody, ActionOmit:
		return true
	}
	return false
}

// MatchAny is the wildcard kind pattern. A rule with this kind matches every
// node, so as the first rule it decides the root and short-circuits the file.
const MatchAny = "*"

// Rule maps a node-kind pattern to an Action. Within and Has optionally
// narrow the match to nodes with a given ancestor or descendant kind.
type Rule struct {
	Kind   string `yaml:"kind" mapstructure:"kind"`
	Within string `yaml:"within,omitempty" mapstructure:"within"`
	Has    string `yaml:"has,omitempty" mapstructure:"has"`
	Action Action `yaml:"action" mapstructure:"action"`
}

// matches reports whether the rule applies to a node given the kinds of its
// ancestors, outermost first.
func (r Rule) matches(node *syntax.Node, ancestors []string) bool {
	if r.Kind != MatchAny && r.Kind != node.Kind {
		return false
	}
	if r.Within != "" && !slices.Contains(ancestors, r.Within) {
		return false
	}
	if r.Has != "" && !hasDescendant(node, r.Has) {
		return false
	}
	return true
}

// hasDescendant reports whether any node strictly below n has the kind.
func hasDescendant(n *syntax.Node, kind string) bool {
	for _, child := range n.Children {
		if child.Kind == kind || hasDescendant(child, kind) {
			return true
		}
	}
	return false
}

// KeepAll is the root-level override applied to fully included files: it
// matches the root node first, so the whole file is kept verbatim.
var KeepAll = Rule{Kind: MatchAny, Action: ActionKeep}

// elideFunctions builds the default table entries for a language's
// function-like kinds.
func elideFunctions(kinds ...string) []Rule {
	rules := make([]Rule, 0, len(kinds))
	for _, kind := range kinds {
		rules = append(rules, Rule{Kind: kind, Action: ActionElideBody})
	}
	return rules
}

// defaultRules holds the built-in table per language: elide function and
// method bodies, keep everything else through the implicit fallback. Type
// declarations, imports, constants and comments need no rules because
// unmatched regions are copied verbatim; containers (impl blocks, classes)
// need none either, so traversal reaches the methods inside them.
var defaultRules = func() map[string][]Rule {
	scriptRules := elideFunctions("function_declaration", "method_definition")

	return map[string][]Rule{
		"go":         elideFunctions("function_declaration", "method_declaration"),
		"rust":       elideFunctions("function_item"),
		"python":     elideFunctions("function_definition"),
		"java":       elideFunctions("method_declaration", "constructor_declaration"),
		"typescript": scriptRules,
		"tsx":        scriptRules,
		"javascript": scriptRules,
		"c":          elideFunctions("function_definition"),
		"ruby":       elideFunctions("method", "singleton_method"),
		"php":        elideFunctions("function_definition", "method_declaration"),
	}
}()

// RuleSet is the effective, ordered rule list for one language: overrides
// first, then the language defaults. Read-only after Resolve, safe to share
// across goroutines.
type RuleSet struct {
	Language string
	rules    []Rule
}

// Resolve layers override rules over the language's default table. Overrides
// take strict precedence; within each tier declaration order decides.
func Resolve(language string, overrides []Rule) (*RuleSet, error) {
	if !syntax.Supported(language) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	if err := ValidateRules(overrides); err != nil {
		return nil, err
	}

	defaults := defaultRules[language]
	rules := make([]Rule, 0, len(overrides)+len(defaults))
	rules = append(rules, overrides...)
	rules = append(rules, defaults...)

	return &RuleSet{Language: language, rules: rules}, nil
}

// ValidateRules rejects rules with an empty kind pattern or unknown action.
func ValidateRules(rules []Rule) error {
	for i, r := range rules {
		if r.Kind == "" {
			return fmt.Errorf("%w: rule %d has no kind", ErrInvalidRule, i)
		}
		if !r.Action.Valid() {
			return fmt.Errorf("%w: rule %d has action %q", ErrInvalidRule, i, r.Action)
		}
	}
	return nil
}

// match returns the first rule applying to the node, overrides before
// defaults, declaration order within each tier.
func (rs *RuleSet) match(node *syntax.Node, ancestors []string) (Rule, bool) {
	for _, r := range rs.rules {
		if r.matches(node, ancestors) {
			return r, true
		}
	}
	return Rule{}, false
}

// Fingerprint returns a stable hash of the effective rules, used together
// with a content hash and the language as a memoization key.
func (rs *RuleSet) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", rs.Language)
	for _, r := range rs.rules {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\n", r.Kind, r.Within, r.Has, r.Action)
	}
	return hex.EncodeToString(h.Sum(nil))
}
