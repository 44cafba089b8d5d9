package ast

import (
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/peggyvm"
	"github.com/chronos-tachyon/peggy/token"
)

// Input is the character input a parse tree was built from.
type Input interface {
	// Substring returns the runes in [from, to).
	Substring(from, to int) string

	// Position returns the 1-based line and column of index.
	Position(index int) (line, column int)
}

// NodeBuilder builds the output tree of a character-mode parse.
type NodeBuilder interface {
	// NonTerminal builds the node for a rule, given its already built
	// children.
	NonTerminal(key grammar.RuleKey, rule *peggyvm.Matcher, children []interface{}, from, to int) interface{}

	// Terminal builds a leaf spanning [from, to). The trivia are the
	// comments seen since the previous terminal. The type is nil if the
	// match was not wrapped in a token expression.
	Terminal(in Input, from, to int, trivia []token.Trivia, t token.Type) interface{}
}

// DefaultBuilder builds *Node trees.
type DefaultBuilder struct{}

var _ NodeBuilder = DefaultBuilder{}

// NonTerminal returns a *Node that takes the token of its first child that
// has one.
func (DefaultBuilder) NonTerminal(key grammar.RuleKey, rule *peggyvm.Matcher, children []interface{}, from, to int) interface{} {
	n := &Node{Key: key, Name: key.String(), From: from, To: to}
	for _, child := range children {
		c, _ := child.(*Node)
		if n.Token == nil && c != nil && c.HasToken() {
			n.Token = c.Token
		}
		n.AddChild(c)
	}
	return n
}

// Terminal returns a leaf *Node whose token carries the matched text and
// the given trivia. Untyped matches get the Undefined type.
func (DefaultBuilder) Terminal(in Input, from, to int, trivia []token.Trivia, t token.Type) interface{} {
	if t == nil {
		t = Undefined
	}
	text := in.Substring(from, to)
	line, column := in.Position(from)
	tok := token.New(t, text, line, column-1)
	tok.Trivia = trivia
	return &Node{Name: t.Name(), Token: tok, From: from, To: to}
}
