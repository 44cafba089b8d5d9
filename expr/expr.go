// Package expr implements the parsing-expression algebra.
//
// Expressions are immutable once constructed and may be shared freely
// between rules, grammars and goroutines.
package expr

import (
	"bytes"
	"strconv"
)

// RuleKey names a grammar rule. Keys are compared with ==, so they must be
// of a comparable type; Key is the usual choice.
type RuleKey interface {
	String() string
}

// Key is a RuleKey backed by a plain string.
type Key string

func (k Key) String() string { return string(k) }

// Expr is a parsing expression.
type Expr interface {
	// String returns a stable, human-readable rendering of the expression.
	String() string

	isExpr()
}

// Unary is implemented by the expressions that wrap exactly one
// sub-expression.
type Unary interface {
	Expr
	Inner() Expr
}

// Nary is implemented by the expressions that hold a list of
// sub-expressions.
type Nary interface {
	Expr
	Elements() []Expr
}

// Children returns the direct sub-expressions of e, if any.
func Children(e Expr) []Expr {
	switch x := e.(type) {
	case Nary:
		return x.Elements()
	case Unary:
		return []Expr{x.Inner()}
	}
	return nil
}

func writeCall(buf *bytes.Buffer, name string, args ...Expr) {
	buf.WriteString(name)
	buf.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(arg.String())
	}
	buf.WriteByte(')')
}

func quote(s string) string {
	return strconv.Quote(s)
}
