package grammar

import (
	"errors"
	"fmt"

	"github.com/chronos-tachyon/peggy/expr"
)

var (
	ErrRuleRedefined   = errors.New("has already been defined somewhere in the grammar")
	ErrRuleOverridden  = errors.New("has already been overridden")
	ErrRuleUndefined   = errors.New("hasn't been defined")
	ErrNoRootRule      = errors.New("no root rule has been set")
	ErrBadPattern      = expr.ErrBadPattern
	ErrBadArgument     = expr.ErrBadArgument
	ErrEmptyExpression = expr.ErrEmptyExpression
)

// DefinitionError is an error in the definition of a grammar. It is always
// a bug in the grammar itself, never in the input being parsed.
type DefinitionError struct {
	Err  error
	Rule RuleKey
}

func (e *DefinitionError) Error() string {
	const prefix = "github.com/chronos-tachyon/peggy/grammar: "
	if e.Rule == nil {
		return prefix + e.Err.Error()
	}
	switch e.Err {
	case ErrRuleRedefined, ErrRuleOverridden, ErrRuleUndefined:
		return fmt.Sprintf("%sthe rule '%s' %v", prefix, e.Rule, e.Err)
	}
	return fmt.Sprintf("%srule '%s': %v", prefix, e.Rule, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
