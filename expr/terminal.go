package expr

import (
	"github.com/dlclark/regexp2"

	"github.com/chronos-tachyon/peggy/charset"
)

// Literal matches an exact string.
type Literal struct {
	Text string
}

// NewLiteral returns an expression matching text exactly.
func NewLiteral(text string) *Literal {
	return &Literal{Text: text}
}

func (e *Literal) String() string { return quote(e.Text) }
func (e *Literal) isExpr()        {}

// Pattern matches a regular expression anchored at the current position.
type Pattern struct {
	Source string
}

// NewPattern validates src and returns an expression matching it. The
// syntax is that of github.com/dlclark/regexp2.
func NewPattern(src string) (*Pattern, error) {
	if _, err := CompilePattern(src); err != nil {
		return nil, &ArgumentError{Err: ErrBadPattern, Value: src, Cause: err}
	}
	return &Pattern{Source: src}, nil
}

// CompilePattern compiles src so that it only matches starting exactly at
// the position handed to the matcher.
func CompilePattern(src string) (*regexp2.Regexp, error) {
	if _, err := regexp2.Compile(src, regexp2.None); err != nil {
		return nil, err
	}
	return regexp2.Compile(`\G(?:`+src+`)`, regexp2.None)
}

func (e *Pattern) String() string { return "regexp(" + quote(e.Source) + ")" }
func (e *Pattern) isExpr()        {}

// Class matches one character belonging to a set.
type Class struct {
	Set charset.Matcher
}

// NewClass returns an expression matching one character of m.
func NewClass(m charset.Matcher) *Class {
	return &Class{Set: m.Optimize()}
}

func (e *Class) String() string { return e.Set.String() }
func (e *Class) isExpr()        {}

type anyChar struct{}
type endOfInput struct{}
type nothing struct{}

var (
	// AnyChar matches any single character.
	AnyChar Expr = anyChar{}

	// EndOfInput matches only at the end of the input, consuming nothing.
	EndOfInput Expr = endOfInput{}

	// Nothing never matches.
	Nothing Expr = nothing{}
)

func (anyChar) String() string    { return "anyChar" }
func (anyChar) isExpr()           {}
func (endOfInput) String() string { return "endOfInput" }
func (endOfInput) isExpr()        {}
func (nothing) String() string    { return "nothing" }
func (nothing) isExpr()           {}
