package ast

import (
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/peggyvm"
	"github.com/chronos-tachyon/peggy/token"
)

// converter turns a parse tree into an output tree. Rule nodes, and any
// other node for which branch returns true, are descended into; every other
// node is handed to leaf, which appends zero or more values to kids.
type converter struct {
	branch func(pn *peggyvm.ParseNode) bool
	leaf   func(pn *peggyvm.ParseNode, kids []interface{}) []interface{}
	build  func(pn *peggyvm.ParseNode, kids []interface{}) interface{}
}

// run walks the tree iteratively, so arbitrarily deep trees are fine.
//
// A rule whose skip policy elides it contributes its children to its parent
// in its place. Non-rule branches always do. The root rule is always built,
// then unwrapped if it would have been elided and has exactly one child.
func (c *converter) run(root *peggyvm.ParseNode) interface{} {
	type frame struct {
		pn   *peggyvm.ParseNode
		next int
		kids []interface{}
	}

	stack := []frame{{pn: root}}
	for {
		top := len(stack) - 1
		if stack[top].next < len(stack[top].pn.Children) {
			child := stack[top].pn.Children[stack[top].next]
			stack[top].next++
			if child.Matcher.Kind == peggyvm.RuleMatcher || c.branch(child) {
				stack = append(stack, frame{pn: child})
			} else {
				stack[top].kids = c.leaf(child, stack[top].kids)
			}
			continue
		}

		fr := stack[top]
		stack = stack[:top]
		m := fr.pn.Matcher

		if top == 0 {
			if m.Policy.ShouldSkip(len(fr.kids)) && len(fr.kids) == 1 {
				return fr.kids[0]
			}
			return c.build(fr.pn, fr.kids)
		}

		parent := &stack[top-1]
		switch {
		case m.Kind != peggyvm.RuleMatcher:
			parent.kids = append(parent.kids, fr.kids...)
		case m.Policy == grammar.SkipAlways:
			parent.kids = append(parent.kids, fr.kids...)
		case m.Policy.ShouldSkip(len(fr.kids)):
			parent.kids = append(parent.kids, fr.kids[0])
		default:
			parent.kids = append(parent.kids, c.build(fr.pn, fr.kids))
		}
	}
}

// FromTokens converts the parse tree of a token-mode grammar. Terminals take
// their tokens from tokens, dropping those whose type is skipped from the
// AST. Token and trivia wrappers are transparent.
func FromTokens(root *peggyvm.ParseNode, tokens []*token.Token) *Node {
	if root == nil {
		return nil
	}

	c := &converter{
		branch: func(pn *peggyvm.ParseNode) bool {
			return pn.Matcher.Kind != peggyvm.TerminalMatcher
		},
		leaf: func(pn *peggyvm.ParseNode, kids []interface{}) []interface{} {
			for i := pn.Start; i < pn.End && i < len(tokens); i++ {
				tok := tokens[i]
				if tok.Type != nil && tok.Type.SkipFromAST() {
					continue
				}
				name := Undefined.Name()
				if tok.Type != nil {
					name = tok.Type.Name()
				}
				kids = append(kids, &Node{Name: name, Token: tok, From: i, To: i + 1})
			}
			return kids
		},
		build: func(pn *peggyvm.ParseNode, kids []interface{}) interface{} {
			n := &Node{Key: pn.Matcher.Key, Name: pn.Matcher.Name, From: pn.Start, To: pn.End}
			for _, kid := range kids {
				child := kid.(*Node)
				if n.Token == nil && child.HasToken() {
					n.Token = child.Token
				}
				n.AddChild(child)
			}
			return n
		},
	}

	n, _ := c.run(root).(*Node)
	return n
}

// FromText converts the parse tree of a character-mode grammar using b, or
// DefaultBuilder if b is nil.
//
// Every non-rule node is a terminal; its own children are not visited.
// Skipped-text trivia is dropped. Comment trivia, and tokens whose type is
// token.Comment, are collected and attached to the next terminal.
func FromText(root *peggyvm.ParseNode, in Input, b NodeBuilder) interface{} {
	if root == nil {
		return nil
	}
	if b == nil {
		b = DefaultBuilder{}
	}

	var pending []token.Trivia
	comment := func(pn *peggyvm.ParseNode) {
		text := in.Substring(pn.Start, pn.End)
		line, column := in.Position(pn.Start)
		pending = append(pending, token.NewComment(token.New(token.Comment, text, line, column-1)))
	}

	c := &converter{
		branch: func(*peggyvm.ParseNode) bool { return false },
		leaf: func(pn *peggyvm.ParseNode, kids []interface{}) []interface{} {
			var t token.Type
			switch m := pn.Matcher; m.Kind {
			case peggyvm.TriviaMatcher:
				if m.Trivia == token.CommentTrivia {
					comment(pn)
				}
				return kids
			case peggyvm.TokenMatcher:
				if m.TokenType == token.Comment {
					comment(pn)
					return kids
				}
				t = m.TokenType
			}
			v := b.Terminal(in, pn.Start, pn.End, pending, t)
			pending = nil
			return append(kids, v)
		},
		build: func(pn *peggyvm.ParseNode, kids []interface{}) interface{} {
			return b.NonTerminal(pn.Matcher.Key, pn.Matcher, kids, pn.Start, pn.End)
		},
	}
	return c.run(root)
}
