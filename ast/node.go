// Package ast converts raw parse trees into abstract syntax trees.
//
// Token-mode parse trees become trees of *Node. Character-mode parse trees
// are handed to a NodeBuilder, which may build any representation it likes;
// DefaultBuilder builds *Node as well.
package ast

import (
	"bytes"
	"fmt"

	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/token"
)

// Node is a node of the AST.
type Node struct {
	// Key is the rule that produced a non-terminal. It is nil for
	// terminals.
	Key grammar.RuleKey

	// Name is the rule key or token type name.
	Name string

	// Token is the token of a terminal, or the first token beneath a
	// non-terminal. It may be nil.
	Token *token.Token

	Children []*Node

	// From and To delimit the span of input covered by the node.
	From int
	To   int

	parent *Node
}

// Undefined is the token type of terminals that were not wrapped in a token
// expression.
var Undefined token.Type = undefinedType{}

type undefinedType struct{}

func (undefinedType) Name() string      { return "TOKEN" }
func (undefinedType) Value() string     { return "TOKEN" }
func (undefinedType) SkipFromAST() bool { return false }

func (n *Node) IsTerminal() bool  { return n.Key == nil }
func (n *Node) HasToken() bool    { return n.Token != nil }
func (n *Node) HasChildren() bool { return len(n.Children) != 0 }
func (n *Node) NumChildren() int  { return len(n.Children) }
func (n *Node) Parent() *Node     { return n.parent }

// TokenValue returns the value of the node's token, or "" if it has none.
func (n *Node) TokenValue() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Value
}

// FirstChild returns the first child, or nil for a leaf.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child, or nil for a leaf.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// AddChild appends child to n's children. A nil child is ignored.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Descendants returns every node below n whose Name is name, in depth-first
// order.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		if d != n && d.Name == name {
			out = append(out, d)
		}
	})
	return out
}

// Tokens returns the tokens of the terminals below n, in input order.
func (n *Node) Tokens() []*token.Token {
	var out []*token.Token
	n.walk(func(d *Node) {
		if !d.HasChildren() && d.HasToken() {
			out = append(out, d.Token)
		}
	})
	return out
}

// walk visits n and its descendants in pre-order.
func (n *Node) walk(f func(*Node)) {
	stack := []*Node{n}
	for len(stack) != 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f(d)
		for i := len(d.Children) - 1; i >= 0; i-- {
			stack = append(stack, d.Children[i])
		}
	}
}

// String provides a programmer-friendly debugging string for the Node.
func (n *Node) String() string {
	var buf bytes.Buffer
	buf.WriteString(n.Name)
	if n.Token != nil {
		fmt.Fprintf(&buf, " tokenValue=%q tokenLine=%d tokenColumn=%d", n.Token.Value, n.Token.Line, n.Token.Column)
	}
	return buf.String()
}
