// Package token defines the token stream consumed by token-mode grammars.
//
// Tokens are produced by an external tokenizer. The list handed to the parser
// is expected to end with a token whose type is EOF.
package token

import (
	"bytes"
	"fmt"
)

// Type is the syntactic category of a Token.
type Type interface {
	// Name is the name shown in AST dumps and error messages.
	Name() string

	// Value is the canonical text of the type, if any (e.g. a keyword).
	Value() string

	// SkipFromAST reports whether terminals of this type are dropped by the
	// AST converter.
	SkipFromAST() bool
}

// GenericType is the set of token types every tokenizer may rely upon.
type GenericType uint8

const (
	EOF GenericType = iota
	Identifier
	Literal
	Constant
	Comment
	UnknownChar
)

var genericNames = []string{
	"EOF",
	"IDENTIFIER",
	"LITERAL",
	"CONSTANT",
	"COMMENT",
	"UNKNOWN_CHAR",
}

var _ Type = GenericType(0)

func (t GenericType) Name() string {
	if int(t) < len(genericNames) {
		return genericNames[t]
	}
	return fmt.Sprintf("GenericType(%d)", uint8(t))
}

func (t GenericType) Value() string     { return t.Name() }
func (t GenericType) SkipFromAST() bool { return false }
func (t GenericType) String() string    { return t.Name() }

// Token is a single lexical unit.
type Token struct {
	Type Type

	// Value is the normalized text of the token.
	Value string

	// OriginalValue is the text exactly as it appeared in the source.
	OriginalValue string

	// Line is 1-based; Column is 0-based.
	Line   int
	Column int

	// Trivia holds the comments and skipped text that preceded this token.
	Trivia []Trivia
}

// New returns a token whose value and original value are both text.
func New(t Type, text string, line, column int) *Token {
	return &Token{
		Type:          t,
		Value:         text,
		OriginalValue: text,
		Line:          line,
		Column:        column,
	}
}

// HasTrivia reports whether any trivia is attached to the token.
func (tok *Token) HasTrivia() bool {
	return len(tok.Trivia) != 0
}

// IsEOF reports whether tok is the end-of-input marker.
func (tok *Token) IsEOF() bool {
	return tok != nil && tok.Type == EOF
}

// String provides a programmer-friendly debugging string for the Token.
func (tok *Token) String() string {
	var buf bytes.Buffer
	name := "<nil>"
	if tok.Type != nil {
		name = tok.Type.Name()
	}
	fmt.Fprintf(&buf, "%s %q @ %d:%d", name, tok.Value, tok.Line, tok.Column)
	return buf.String()
}
