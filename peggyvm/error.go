package peggyvm

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrLeftRecursion   = errors.New("left recursion has been detected")
	ErrEmptyRepetition = errors.New("the inner part of ZeroOrMore and OneOrMore must not allow empty matches")
	ErrPatternFailure  = errors.New("pattern matching failed")
	ErrModeMismatch    = errors.New("expression is not valid in this grammar mode")
	ErrUnknownExpr     = errors.New("unknown parsing expression")

	ErrUnknownOpcode   = errors.New("invalid instruction: unknown opcode")
	ErrExecutionHalted = errors.New("execution already halted")
	ErrEmptyStack      = errors.New("empty stack")
	ErrCallRetFrame    = errors.New("encountered CALL/RET stack frame")
	ErrChoiceFailFrame = errors.New("encountered CHOICE/FAIL stack frame")
	ErrIndexRange      = errors.New("index out of range")
	ErrUnknownRule     = errors.New("no such rule")
	ErrInputMode       = errors.New("input does not match the grammar's mode")
	ErrUndefinedLabel  = errors.New("label referenced but never emitted")
)

// GrammarError is a fatal error caused by a defect in the grammar that only
// shows up while parsing: left recursion, a repetition whose body matches
// the empty string, or a pattern that blows up.
type GrammarError struct {
	Err     error
	Rule    string
	Pattern string
	XP      uint64
	DP      int
	Cause   error
}

func (e *GrammarError) Error() string {
	var buf bytes.Buffer
	buf.WriteString("github.com/chronos-tachyon/peggy/peggyvm: ")
	buf.WriteString(e.Err.Error())
	switch e.Err {
	case ErrLeftRecursion:
		fmt.Fprintf(&buf, ", involved rule: %s", e.Rule)
	case ErrEmptyRepetition:
		if e.Rule != "" {
			fmt.Fprintf(&buf, " (rule %s, index %d)", e.Rule, e.DP)
		}
	case ErrPatternFailure:
		fmt.Fprintf(&buf, ": %s at index %d", e.Pattern, e.DP)
	case ErrModeMismatch, ErrUnknownExpr:
		fmt.Fprintf(&buf, ": %s in rule %s", e.Pattern, e.Rule)
	}
	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}
	return buf.String()
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// AssembleError is an error encountered while assembling a program.
type AssembleError struct {
	Err   error
	Label string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("github.com/chronos-tachyon/peggy/peggyvm: assemble error @ %s: %v", e.Label, e.Err)
}

func (e *AssembleError) Unwrap() error {
	return e.Err
}

// RuntimeError is an error encountered during the execution of a compiled
// program. This typically means that there is a bug in the VM, or that a
// hand-assembled program is corrupt.
type RuntimeError struct {
	Err error
	XP  uint64
	DP  int
	Op  *Op
}

func (e *RuntimeError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "github.com/chronos-tachyon/peggy/peggyvm: runtime error @ XP %d DP %d: ", e.XP, e.DP)
	if e.Op != nil {
		buf.WriteString(e.Op.Meta().Name)
		buf.WriteString(": ")
	}
	buf.WriteString(e.Err.Error())
	return buf.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
