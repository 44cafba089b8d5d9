package ast

import (
	"fmt"
	"strconv"

	"github.com/antchfx/xpath"
)

// Query is a compiled XPath expression over AST nodes. Elements are named
// after Node.Name; nodes that carry a token have the attributes tokenLine,
// tokenColumn and tokenValue. The document node sits above the topmost
// ancestor of the node a query is evaluated on.
//
// A Query is safe for concurrent use.
type Query struct {
	path string
	expr *xpath.Expr
}

// NewQuery compiles an XPath expression.
func NewQuery(path string) (*Query, error) {
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("ast: bad query %q: %w", path, err)
	}
	return &Query{path: path, expr: expr}, nil
}

// MustQuery is like NewQuery but panics on error.
func MustQuery(path string) *Query {
	q, err := NewQuery(path)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Query) String() string { return q.path }

// SelectNodes evaluates q with n as the context node and returns the
// matching element nodes in document order.
//
// Given the tree
//
//	A1
//	|__ C1
//	|    |__ B1
//	|__ B2
//	|__ B3
//
// the query "/A/B" selects B2 and B3.
func (q *Query) SelectNodes(n *Node) []*Node {
	var out []*Node
	it := q.expr.Select(NewNavigator(n))
	for it.MoveNext() {
		if m := nodeOf(it.Current()); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// SelectSingleNode is like SelectNodes but returns only the first match,
// or nil if nothing matched.
func (q *Query) SelectSingleNode(n *Node) *Node {
	it := q.expr.Select(NewNavigator(n))
	for it.MoveNext() {
		if m := nodeOf(it.Current()); m != nil {
			return m
		}
	}
	return nil
}

// Evaluate evaluates q with n as the context node. The result is a
// float64, string or bool for scalar expressions, or a []*Node for node
// sets.
func (q *Query) Evaluate(n *Node) interface{} {
	switch v := q.expr.Evaluate(NewNavigator(n)).(type) {
	case *xpath.NodeIterator:
		var out []*Node
		for v.MoveNext() {
			if m := nodeOf(v.Current()); m != nil {
				out = append(out, m)
			}
		}
		return out
	default:
		return v
	}
}

func nodeOf(nav xpath.NodeNavigator) *Node {
	x, ok := nav.(*NodeNavigator)
	if !ok || x.attr >= 0 {
		return nil
	}
	return x.curr
}

var attrNames = [...]string{"tokenLine", "tokenColumn", "tokenValue"}

// NodeNavigator is an xpath.NodeNavigator over a tree of Nodes.
type NodeNavigator struct {
	root *Node
	curr *Node // nil at the document node
	attr int   // index into attrNames, or -1
	idx  int   // index of curr among its siblings, or -1 if unknown
}

var _ xpath.NodeNavigator = (*NodeNavigator)(nil)

// NewNavigator returns a navigator positioned on n.
func NewNavigator(n *Node) *NodeNavigator {
	root := n
	for root != nil && root.Parent() != nil {
		root = root.Parent()
	}
	return &NodeNavigator{root: root, curr: n, attr: -1, idx: -1}
}

// Current returns the node the navigator is on, or nil at the document
// node. On an attribute it returns the attribute's owner.
func (nav *NodeNavigator) Current() *Node { return nav.curr }

func (nav *NodeNavigator) NodeType() xpath.NodeType {
	switch {
	case nav.curr == nil:
		return xpath.RootNode
	case nav.attr >= 0:
		return xpath.AttributeNode
	default:
		return xpath.ElementNode
	}
}

func (nav *NodeNavigator) LocalName() string {
	switch {
	case nav.curr == nil:
		return ""
	case nav.attr >= 0:
		return attrNames[nav.attr]
	default:
		return nav.curr.Name
	}
}

func (nav *NodeNavigator) Prefix() string { return "" }

// Value returns an attribute's value, or the token value of an element.
func (nav *NodeNavigator) Value() string {
	if nav.curr == nil {
		return ""
	}
	if nav.attr < 0 {
		return nav.curr.TokenValue()
	}
	tok := nav.curr.Token
	switch nav.attr {
	case 0:
		return strconv.Itoa(tok.Line)
	case 1:
		return strconv.Itoa(tok.Column)
	default:
		return tok.Value
	}
}

func (nav *NodeNavigator) Copy() xpath.NodeNavigator {
	dup := *nav
	return &dup
}

func (nav *NodeNavigator) MoveToRoot() {
	nav.curr = nil
	nav.attr = -1
	nav.idx = -1
}

func (nav *NodeNavigator) MoveToParent() bool {
	switch {
	case nav.attr >= 0:
		nav.attr = -1
		return true
	case nav.curr == nil:
		return false
	default:
		nav.curr = nav.curr.Parent()
		nav.idx = -1
		return true
	}
}

func (nav *NodeNavigator) MoveToNextAttribute() bool {
	if nav.curr == nil || !nav.curr.HasToken() || nav.attr+1 >= len(attrNames) {
		return false
	}
	nav.attr++
	return true
}

func (nav *NodeNavigator) MoveToChild() bool {
	switch {
	case nav.attr >= 0:
		return false
	case nav.curr == nil:
		if nav.root == nil {
			return false
		}
		nav.curr = nav.root
		nav.idx = -1
		return true
	case len(nav.curr.Children) == 0:
		return false
	default:
		nav.curr = nav.curr.Children[0]
		nav.idx = 0
		return true
	}
}

func (nav *NodeNavigator) MoveToFirst() bool {
	return nav.moveSibling(func(siblings []*Node, i int) int {
		if i == 0 {
			return -1
		}
		return 0
	})
}

func (nav *NodeNavigator) MoveToNext() bool {
	return nav.moveSibling(func(siblings []*Node, i int) int {
		if i+1 >= len(siblings) {
			return -1
		}
		return i + 1
	})
}

func (nav *NodeNavigator) MoveToPrevious() bool {
	return nav.moveSibling(func(siblings []*Node, i int) int {
		return i - 1
	})
}

// moveSibling moves to the sibling chosen by pick, which gets the current
// node's index among its siblings and returns -1 to stay put.
func (nav *NodeNavigator) moveSibling(pick func(siblings []*Node, i int) int) bool {
	if nav.attr >= 0 || nav.curr == nil {
		return false
	}
	parent := nav.curr.Parent()
	if parent == nil {
		return false
	}
	siblings := parent.Children
	i := nav.idx
	if i < 0 || i >= len(siblings) || siblings[i] != nav.curr {
		if i = indexOf(siblings, nav.curr); i < 0 {
			return false
		}
	}
	j := pick(siblings, i)
	if j < 0 {
		return false
	}
	nav.curr = siblings[j]
	nav.idx = j
	return true
}

func (nav *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	x, ok := other.(*NodeNavigator)
	if !ok || x.root != nav.root {
		return false
	}
	*nav = *x
	return true
}

func indexOf(list []*Node, n *Node) int {
	for i, c := range list {
		if c == n {
			return i
		}
	}
	return -1
}
