package expr

import (
	"bytes"

	"github.com/chronos-tachyon/peggy/token"
)

// Sequence matches each element in order.
type Sequence struct {
	Items []Expr
}

// FirstOf tries each alternative in order and commits to the first one
// that matches.
type FirstOf struct {
	Items []Expr
}

// NewSequence returns the sequence of items. A sequence of one item is the
// item itself.
func NewSequence(items ...Expr) (Expr, error) {
	list, err := checkList(items)
	if err != nil {
		return nil, err
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return &Sequence{Items: list}, nil
}

// NewFirstOf returns the ordered choice between items. A choice of one item
// is the item itself.
func NewFirstOf(items ...Expr) (Expr, error) {
	list, err := checkList(items)
	if err != nil {
		return nil, err
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return &FirstOf{Items: list}, nil
}

func (e *Sequence) Elements() []Expr { return e.Items }
func (e *Sequence) isExpr()          {}
func (e *Sequence) String() string {
	var buf bytes.Buffer
	writeCall(&buf, "sequence", e.Items...)
	return buf.String()
}

func (e *FirstOf) Elements() []Expr { return e.Items }
func (e *FirstOf) isExpr()          {}
func (e *FirstOf) String() string {
	var buf bytes.Buffer
	writeCall(&buf, "firstOf", e.Items...)
	return buf.String()
}

// Optional matches Sub, or nothing.
type Optional struct{ Sub Expr }

// ZeroOrMore matches Sub greedily as many times as possible.
type ZeroOrMore struct{ Sub Expr }

// OneOrMore matches Sub greedily at least once.
type OneOrMore struct{ Sub Expr }

// Next succeeds if Sub matches, without consuming input.
type Next struct{ Sub Expr }

// NextNot succeeds if Sub does not match, without consuming input.
type NextNot struct{ Sub Expr }

// NewOptional returns optional(sequence(items...)).
func NewOptional(items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &Optional{Sub: sub}, nil
}

// NewZeroOrMore returns zeroOrMore(sequence(items...)).
func NewZeroOrMore(items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &ZeroOrMore{Sub: sub}, nil
}

// NewOneOrMore returns oneOrMore(sequence(items...)).
func NewOneOrMore(items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &OneOrMore{Sub: sub}, nil
}

// NewNext returns next(sequence(items...)).
func NewNext(items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &Next{Sub: sub}, nil
}

// NewNextNot returns nextNot(sequence(items...)).
func NewNextNot(items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &NextNot{Sub: sub}, nil
}

func (e *Optional) Inner() Expr      { return e.Sub }
func (e *Optional) isExpr()          {}
func (e *Optional) String() string   { return unaryString("optional", e.Sub) }
func (e *ZeroOrMore) Inner() Expr    { return e.Sub }
func (e *ZeroOrMore) isExpr()        {}
func (e *ZeroOrMore) String() string { return unaryString("zeroOrMore", e.Sub) }
func (e *OneOrMore) Inner() Expr     { return e.Sub }
func (e *OneOrMore) isExpr()         {}
func (e *OneOrMore) String() string  { return unaryString("oneOrMore", e.Sub) }
func (e *Next) Inner() Expr          { return e.Sub }
func (e *Next) isExpr()              {}
func (e *Next) String() string       { return unaryString("next", e.Sub) }
func (e *NextNot) Inner() Expr       { return e.Sub }
func (e *NextNot) isExpr()           {}
func (e *NextNot) String() string    { return unaryString("nextNot", e.Sub) }

// Ref is a reference to a rule, resolved when the grammar is compiled.
type Ref struct {
	Key RuleKey
}

// NewRef returns a reference to the rule named by key.
func NewRef(key RuleKey) *Ref {
	return &Ref{Key: key}
}

func (e *Ref) String() string { return e.Key.String() }
func (e *Ref) isExpr()        {}

// Token marks everything matched by Sub as a single token of Type. Failures
// inside a token are not reported as the furthest failure.
type Token struct {
	Type token.Type
	Sub  Expr
}

// NewToken returns token(t, sequence(items...)).
func NewToken(t token.Type, items ...Expr) (Expr, error) {
	if t == nil {
		return nil, &ArgumentError{Err: ErrBadArgument, Value: t}
	}
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &Token{Type: t, Sub: sub}, nil
}

func (e *Token) Inner() Expr { return e.Sub }
func (e *Token) isExpr()     {}
func (e *Token) String() string {
	return "token(" + e.Type.Name() + ", " + e.Sub.String() + ")"
}

// Trivia marks everything matched by Sub as a comment or as skipped text.
type Trivia struct {
	Kind token.TriviaKind
	Sub  Expr
}

// NewTrivia returns a trivia expression of the given kind.
func NewTrivia(kind token.TriviaKind, items ...Expr) (Expr, error) {
	sub, err := NewSequence(items...)
	if err != nil {
		return nil, err
	}
	return &Trivia{Kind: kind, Sub: sub}, nil
}

func (e *Trivia) Inner() Expr { return e.Sub }
func (e *Trivia) isExpr()     {}
func (e *Trivia) String() string {
	if e.Kind == token.CommentTrivia {
		return unaryString("commentTrivia", e.Sub)
	}
	return unaryString("skippedTrivia", e.Sub)
}

func unaryString(name string, sub Expr) string {
	var buf bytes.Buffer
	writeCall(&buf, name, sub)
	return buf.String()
}

func checkList(items []Expr) ([]Expr, error) {
	if len(items) == 0 {
		return nil, ErrEmptyExpression
	}
	list := make([]Expr, len(items))
	for i, item := range items {
		if item == nil {
			return nil, &ArgumentError{Err: ErrBadArgument, Value: item}
		}
		list[i] = item
	}
	return list, nil
}
