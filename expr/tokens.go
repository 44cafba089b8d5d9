package expr

import (
	"bytes"
	"reflect"

	"github.com/chronos-tachyon/peggy/token"
)

// TokenValue matches one token whose value is exactly Value.
type TokenValue struct {
	Value string
}

// TokenType matches one token of the given type.
type TokenType struct {
	Type token.Type
}

// TokenTypeClass matches one token whose type has the given dynamic Go
// type, e.g. every member of a keyword enum.
type TokenTypeClass struct {
	Class reflect.Type
}

// TokenTypes matches one token whose type is any of Types.
type TokenTypes struct {
	Types []token.Type
}

// Bridge matches a balanced run of tokens starting with From and ending with
// the matching To, counting nesting depth.
type Bridge struct {
	From token.Type
	To   token.Type
}

// NewTokenTypeClass returns an expression matching tokens whose type has the
// same dynamic type as sample.
func NewTokenTypeClass(sample token.Type) (*TokenTypeClass, error) {
	if sample == nil {
		return nil, &ArgumentError{Err: ErrBadArgument, Value: sample}
	}
	return &TokenTypeClass{Class: reflect.TypeOf(sample)}, nil
}

// NewTokenTypes returns an expression matching any one of types.
func NewTokenTypes(types ...token.Type) (*TokenTypes, error) {
	if len(types) == 0 {
		return nil, ErrEmptyExpression
	}
	list := make([]token.Type, len(types))
	for i, t := range types {
		if t == nil {
			return nil, &ArgumentError{Err: ErrBadArgument, Value: t}
		}
		list[i] = t
	}
	return &TokenTypes{Types: list}, nil
}

// NewBridge returns bridge(from, to).
func NewBridge(from, to token.Type) (*Bridge, error) {
	if from == nil || to == nil {
		return nil, &ArgumentError{Err: ErrBadArgument, Value: [2]token.Type{from, to}}
	}
	return &Bridge{From: from, To: to}, nil
}

func (e *TokenValue) String() string     { return quote(e.Value) }
func (e *TokenValue) isExpr()            {}
func (e *TokenType) String() string      { return e.Type.Name() }
func (e *TokenType) isExpr()             {}
func (e *TokenTypeClass) String() string { return "tokenTypeClass(" + e.Class.String() + ")" }
func (e *TokenTypeClass) isExpr()        {}
func (e *Bridge) String() string         { return "bridge(" + e.From.Name() + ", " + e.To.Name() + ")" }
func (e *Bridge) isExpr()                {}
func (e *TokenTypes) isExpr()            {}

func (e *TokenTypes) String() string {
	var buf bytes.Buffer
	buf.WriteString("isOneOfThem(")
	for i, t := range e.Types {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(t.Name())
	}
	buf.WriteByte(')')
	return buf.String()
}

// Contains reports whether t is one of the accepted types.
func (e *TokenTypes) Contains(t token.Type) bool {
	for _, x := range e.Types {
		if x == t {
			return true
		}
	}
	return false
}

type anyToken struct{}
type adjacent struct{}
type tillNewLine struct{}

var (
	// AnyToken matches any single token other than EOF.
	AnyToken Expr = anyToken{}

	// Adjacent succeeds without consuming input if the next token starts on
	// the same line immediately after the previous one.
	Adjacent Expr = adjacent{}

	// TillNewLine consumes every remaining token on the line of the
	// previous token.
	TillNewLine Expr = tillNewLine{}
)

func (anyToken) String() string    { return "anyToken" }
func (anyToken) isExpr()           {}
func (adjacent) String() string    { return "adjacent" }
func (adjacent) isExpr()           {}
func (tillNewLine) String() string { return "tillNewLine" }
func (tillNewLine) isExpr()        {}
