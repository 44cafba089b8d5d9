// Package grammar holds the rule registry of a parsing-expression grammar.
//
// A Grammar is assembled with a Builder. Rules may be referenced before they
// are defined; references are checked when the grammar is built, and the
// resulting Grammar is immutable.
package grammar

import (
	"github.com/chronos-tachyon/peggy/expr"
)

type RuleKey = expr.RuleKey
type Key = expr.Key

// Mode selects what a grammar's terminals match against.
type Mode uint8

const (
	// CharacterMode grammars match a sequence of runes.
	CharacterMode Mode = iota

	// TokenMode grammars match a sequence of *token.Token.
	TokenMode
)

func (m Mode) String() string {
	if m == TokenMode {
		return "token"
	}
	return "character"
}

// SkipPolicy tells the AST converter when to elide a rule's node and splice
// its children into the parent.
type SkipPolicy uint8

const (
	SkipNever SkipPolicy = iota
	SkipAlways
	SkipIfOneChild
)

func (p SkipPolicy) String() string {
	switch p {
	case SkipAlways:
		return "skip"
	case SkipIfOneChild:
		return "skipIfOneChild"
	}
	return "never"
}

// ShouldSkip reports whether a node with n converted children is elided.
func (p SkipPolicy) ShouldSkip(n int) bool {
	switch p {
	case SkipAlways:
		return true
	case SkipIfOneChild:
		return n == 1
	}
	return false
}

// Rule is a single rule of a built Grammar.
type Rule struct {
	id      int
	key     RuleKey
	body    expr.Expr
	policy  SkipPolicy
	memoize bool
}

// ID is the rule's position in definition order.
func (r *Rule) ID() int            { return r.id }
func (r *Rule) Key() RuleKey       { return r.key }
func (r *Rule) Expr() expr.Expr    { return r.body }
func (r *Rule) Policy() SkipPolicy { return r.policy }
func (r *Rule) Memoized() bool     { return r.memoize }
func (r *Rule) String() string     { return r.key.String() }

// Grammar is an immutable, validated set of rules.
type Grammar struct {
	mode  Mode
	rules []*Rule
	byKey map[RuleKey]*Rule
	root  RuleKey
}

// Mode returns whether the grammar matches characters or tokens.
func (g *Grammar) Mode() Mode { return g.mode }

// Root returns the key of the rule that parsing starts from.
func (g *Grammar) Root() RuleKey { return g.root }

// Rules returns every rule in definition order.
func (g *Grammar) Rules() []*Rule {
	out := make([]*Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Rule looks up the rule named by key.
func (g *Grammar) Rule(key RuleKey) (*Rule, bool) {
	r, found := g.byKey[key]
	return r, found
}
