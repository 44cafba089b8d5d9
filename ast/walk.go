package ast

import (
	"github.com/chronos-tachyon/peggy/token"
)

// Visitor receives callbacks while a tree is walked.
//
// VisitNode and LeaveNode are only called for nodes whose Name is one of
// the names returned by NodeNames. VisitFile and LeaveFile bracket the whole
// walk and are always called, with a nil root if there is no tree.
type Visitor interface {
	NodeNames() []string
	VisitFile(root *Node)
	LeaveFile(root *Node)
	VisitNode(n *Node)
	LeaveNode(n *Node)
}

// TokenVisitor is a Visitor that also sees every distinct token of the tree,
// in input order. A rule node shares the token of its first child; such a
// token is reported once.
type TokenVisitor interface {
	Visitor
	VisitToken(tok *token.Token)
}

// NopVisitor implements Visitor with empty methods. Embed it to implement
// only the callbacks you need.
type NopVisitor struct{}

var _ Visitor = NopVisitor{}

func (NopVisitor) NodeNames() []string { return nil }
func (NopVisitor) VisitFile(*Node)     {}
func (NopVisitor) LeaveFile(*Node)     {}
func (NopVisitor) VisitNode(*Node)     {}
func (NopVisitor) LeaveNode(*Node)     {}

// Walker dispatches the nodes of a tree to the visitors registered for
// their names.
type Walker struct {
	visitors []Visitor
	tokens   []TokenVisitor
	byName   map[string][]Visitor
}

// NewWalker returns a Walker with the given visitors, in order.
func NewWalker(visitors ...Visitor) *Walker {
	w := &Walker{byName: make(map[string][]Visitor)}
	for _, v := range visitors {
		w.AddVisitor(v)
	}
	return w
}

// AddVisitor registers v after the visitors already present. Visit
// callbacks run in registration order, leave callbacks in reverse order.
func (w *Walker) AddVisitor(v Visitor) {
	w.visitors = append(w.visitors, v)
	for _, name := range v.NodeNames() {
		w.byName[name] = append(w.byName[name], v)
	}
	if tv, ok := v.(TokenVisitor); ok {
		w.tokens = append(w.tokens, tv)
	}
}

// Walk visits the tree rooted at root in depth-first order. The traversal
// keeps its own stack, so tree depth is not limited by the goroutine stack.
func (w *Walker) Walk(root *Node) {
	for _, v := range w.visitors {
		v.VisitFile(root)
	}
	if root != nil {
		w.walk(root)
	}
	for i := len(w.visitors) - 1; i >= 0; i-- {
		w.visitors[i].LeaveFile(root)
	}
}

func (w *Walker) walk(root *Node) {
	type frame struct {
		node *Node
		next int
	}

	var lastToken *token.Token
	enter := func(n *Node) {
		for _, v := range w.byName[n.Name] {
			v.VisitNode(n)
		}
		if n.Token != nil && n.Token != lastToken {
			lastToken = n.Token
			for _, tv := range w.tokens {
				tv.VisitToken(n.Token)
			}
		}
	}
	leave := func(n *Node) {
		list := w.byName[n.Name]
		for i := len(list) - 1; i >= 0; i-- {
			list[i].LeaveNode(n)
		}
	}

	enter(root)
	stack := []frame{{node: root}}
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			enter(child)
			stack = append(stack, frame{node: child})
			continue
		}
		leave(top.node)
		stack = stack[:len(stack)-1]
	}
}

// Walk is shorthand for NewWalker(visitors...).Walk(root).
func Walk(root *Node, visitors ...Visitor) {
	NewWalker(visitors...).Walk(root)
}
