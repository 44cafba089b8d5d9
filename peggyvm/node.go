package peggyvm

import (
	"bytes"
	"fmt"

	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/token"
)

// MatcherKind distinguishes the origins of parse nodes.
type MatcherKind uint8

const (
	// RuleMatcher nodes are produced by grammar rules.
	RuleMatcher MatcherKind = iota

	// TokenMatcher nodes are produced by token(type, e) expressions.
	TokenMatcher

	// TriviaMatcher nodes are produced by trivia(kind, e) expressions.
	TriviaMatcher

	// TerminalMatcher nodes are leaves produced by primitive instructions.
	TerminalMatcher
)

var matcherKindNames = []string{"rule", "token", "trivia", "terminal"}

func (k MatcherKind) String() string {
	if int(k) < len(matcherKindNames) {
		return matcherKindNames[k]
	}
	return fmt.Sprintf("MatcherKind(%d)", uint8(k))
}

// Matcher describes where a parse node came from.
type Matcher struct {
	// ID is the index of this Matcher within Program.Matchers.
	ID   int
	Kind MatcherKind
	Name string
	Expr expr.Expr

	// Rule fields.
	Key     expr.RuleKey
	Policy  grammar.SkipPolicy
	Memoize bool

	// TokenType is set for TokenMatcher.
	TokenType token.Type

	// Trivia is set for TriviaMatcher.
	Trivia token.TriviaKind
}

func (m *Matcher) String() string {
	return m.Name
}

// ParseNode is a node of the raw parse tree. Nodes are never modified once
// created; the same node may be shared when a memoized rule is reused.
type ParseNode struct {
	Matcher  *Matcher
	Start    int
	End      int
	Children []*ParseNode
}

// IsTerminal reports whether n was produced by a primitive instruction.
func (n *ParseNode) IsTerminal() bool {
	return n.Matcher.Kind == TerminalMatcher
}

// String renders the subtree rooted at n, one node per line.
func (n *ParseNode) String() string {
	var buf bytes.Buffer
	type item struct {
		node  *ParseNode
		depth int
	}
	stack := []item{{n, 0}}
	for len(stack) != 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := 0; i < it.depth; i++ {
			buf.WriteString("  ")
		}
		fmt.Fprintf(&buf, "%s %s [%d,%d)\n", it.node.Matcher.Kind, it.node.Matcher.Name, it.node.Start, it.node.End)
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.depth + 1})
		}
	}
	return buf.String()
}

// Input is the sequence an Execution runs against: RuneInput for
// character-mode grammars, TokenInput for token-mode grammars.
type Input interface {
	Len() int
	mode() grammar.Mode
}

// RuneInput is character-mode input.
type RuneInput []rune

// TokenInput is token-mode input.
type TokenInput []*token.Token

func (in RuneInput) Len() int            { return len(in) }
func (in RuneInput) mode() grammar.Mode  { return grammar.CharacterMode }
func (in TokenInput) Len() int           { return len(in) }
func (in TokenInput) mode() grammar.Mode { return grammar.TokenMode }
