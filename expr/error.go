package expr

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression = errors.New("expression requires at least one sub-expression")
	ErrBadArgument     = errors.New("incorrect type of parsing expression")
	ErrBadPattern      = errors.New("malformed regular expression")
)

// ArgumentError reports a value that cannot be converted into a parsing
// expression, or a pattern that does not compile.
type ArgumentError struct {
	Err   error
	Value interface{}
	Cause error
}

func (e *ArgumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github.com/chronos-tachyon/peggy/expr: %v: %#v: %v", e.Err, e.Value, e.Cause)
	}
	return fmt.Sprintf("github.com/chronos-tachyon/peggy/expr: %v: %#v", e.Err, e.Value)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
