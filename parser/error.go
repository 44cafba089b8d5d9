package parser

import (
	"errors"
)

var (
	ErrNoMatch  = errors.New("input does not match the grammar")
	ErrNoTokens = errors.New("no tokens")
)

// ParseError reports input that does not match the grammar.
type ParseError struct {
	Err error

	// Index is the position in the input (rune or token index) at which
	// parsing failed.
	Index int

	Line   int
	Column int

	// Message is the formatted error, including a snippet of the input.
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
