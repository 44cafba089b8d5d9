package expr

import (
	"github.com/chronos-tachyon/peggy/token"
)

// Convert turns v into a character-mode expression: an Expr is returned
// as-is, a string or rune becomes a Literal and a RuleKey becomes a Ref.
func Convert(v interface{}) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		return x, nil
	case string:
		return NewLiteral(x), nil
	case rune:
		return NewLiteral(string(x)), nil
	case RuleKey:
		return NewRef(x), nil
	}
	return nil, &ArgumentError{Err: ErrBadArgument, Value: v}
}

// ConvertToken turns v into a token-mode expression: an Expr is returned
// as-is, a string matches a token value, a token.Type matches a token type
// and a RuleKey becomes a Ref.
func ConvertToken(v interface{}) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		return x, nil
	case string:
		return &TokenValue{Value: x}, nil
	case token.Type:
		return &TokenType{Type: x}, nil
	case RuleKey:
		return NewRef(x), nil
	}
	return nil, &ArgumentError{Err: ErrBadArgument, Value: v}
}

// ConvertAll applies conv to each value.
func ConvertAll(conv func(interface{}) (Expr, error), values []interface{}) ([]Expr, error) {
	out := make([]Expr, len(values))
	for i, v := range values {
		e, err := conv(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
