package grammar

import (
	"github.com/chronos-tachyon/peggy/charset"
	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/token"
)

// convert turns a combinator argument into an expression, according to the
// builder's mode. Rule keys are registered so that Build can report them if
// they are never defined.
func (b *Builder) convert(v interface{}) (expr.Expr, error) {
	switch x := v.(type) {
	case *RuleBuilder:
		return x.Ref(), nil
	case expr.Expr:
		return x, nil
	case string:
	case rune:
	case token.Type:
		if b.mode == CharacterMode {
			return nil, &expr.ArgumentError{Err: ErrBadArgument, Value: v}
		}
	case RuleKey:
		b.Rule(x)
	}
	if b.mode == TokenMode {
		return expr.ConvertToken(v)
	}
	return expr.Convert(v)
}

func (b *Builder) convertAll(values []interface{}) ([]expr.Expr, error) {
	return expr.ConvertAll(b.convert, values)
}

func (b *Builder) sequence(key RuleKey, values []interface{}) expr.Expr {
	list, err := b.convertAll(values)
	if err == nil {
		var e expr.Expr
		e, err = expr.NewSequence(list...)
		if err == nil {
			return e
		}
	}
	b.fail(&DefinitionError{Err: err, Rule: key})
	return expr.Nothing
}

func (b *Builder) build1(ctor func(...expr.Expr) (expr.Expr, error), values []interface{}) expr.Expr {
	list, err := b.convertAll(values)
	if err == nil {
		var e expr.Expr
		e, err = ctor(list...)
		if err == nil {
			return e
		}
	}
	b.fail(&DefinitionError{Err: err})
	return expr.Nothing
}

func (b *Builder) check(e expr.Expr, err error) expr.Expr {
	if err != nil {
		b.fail(&DefinitionError{Err: err})
		return expr.Nothing
	}
	return e
}

// Sequence matches each of the items in order.
func (b *Builder) Sequence(items ...interface{}) expr.Expr {
	return b.build1(expr.NewSequence, items)
}

// FirstOf matches the first of the alternatives that matches.
func (b *Builder) FirstOf(alternatives ...interface{}) expr.Expr {
	return b.build1(expr.NewFirstOf, alternatives)
}

func (b *Builder) Optional(items ...interface{}) expr.Expr {
	return b.build1(expr.NewOptional, items)
}

func (b *Builder) ZeroOrMore(items ...interface{}) expr.Expr {
	return b.build1(expr.NewZeroOrMore, items)
}

func (b *Builder) OneOrMore(items ...interface{}) expr.Expr {
	return b.build1(expr.NewOneOrMore, items)
}

// Next is a positive lookahead.
func (b *Builder) Next(items ...interface{}) expr.Expr {
	return b.build1(expr.NewNext, items)
}

// NextNot is a negative lookahead.
func (b *Builder) NextNot(items ...interface{}) expr.Expr {
	return b.build1(expr.NewNextNot, items)
}

func (b *Builder) Nothing() expr.Expr { return expr.Nothing }

// Regexp matches src anchored at the current position.
func (b *Builder) Regexp(src string) expr.Expr {
	p, err := expr.NewPattern(src)
	if err != nil {
		b.fail(&DefinitionError{Err: err})
		return expr.Nothing
	}
	return p
}

// Class matches one character of m.
func (b *Builder) Class(m charset.Matcher) expr.Expr {
	if m == nil {
		b.fail(&DefinitionError{Err: ErrBadArgument})
		return expr.Nothing
	}
	return expr.NewClass(m)
}

func (b *Builder) AnyChar() expr.Expr    { return expr.AnyChar }
func (b *Builder) EndOfInput() expr.Expr { return expr.EndOfInput }

// Token makes the match of items a single terminal of type t.
func (b *Builder) Token(t token.Type, items ...interface{}) expr.Expr {
	list, err := b.convertAll(items)
	if err != nil {
		return b.check(nil, err)
	}
	return b.check(expr.NewToken(t, list...))
}

func (b *Builder) CommentTrivia(items ...interface{}) expr.Expr {
	return b.trivia(token.CommentTrivia, items)
}

func (b *Builder) SkippedTrivia(items ...interface{}) expr.Expr {
	return b.trivia(token.SkippedText, items)
}

func (b *Builder) trivia(kind token.TriviaKind, items []interface{}) expr.Expr {
	list, err := b.convertAll(items)
	if err != nil {
		return b.check(nil, err)
	}
	return b.check(expr.NewTrivia(kind, list...))
}

// Adjacent matches items only if the first token immediately follows the
// previous one on the same line.
func (b *Builder) Adjacent(items ...interface{}) expr.Expr {
	return b.Sequence(append([]interface{}{expr.Adjacent}, items...)...)
}

func (b *Builder) AnyToken() expr.Expr    { return expr.AnyToken }
func (b *Builder) TillNewLine() expr.Expr { return expr.TillNewLine }

// AnyTokenButNot matches any single token for which items do not match.
func (b *Builder) AnyTokenButNot(items ...interface{}) expr.Expr {
	return b.Sequence(b.NextNot(items...), expr.AnyToken)
}

// IsOneOfThem matches one token whose type is any of types.
func (b *Builder) IsOneOfThem(types ...token.Type) expr.Expr {
	return b.check(expr.NewTokenTypes(types...))
}

// TokenTypeClass matches one token whose type has the same Go type as
// sample.
func (b *Builder) TokenTypeClass(sample token.Type) expr.Expr {
	return b.check(expr.NewTokenTypeClass(sample))
}

// Bridge matches from a from-token to its balanced to-token.
func (b *Builder) Bridge(from, to token.Type) expr.Expr {
	return b.check(expr.NewBridge(from, to))
}

// Till consumes tokens up to and including the first match of items.
func (b *Builder) Till(items ...interface{}) expr.Expr {
	stop := b.Sequence(items...)
	return b.Sequence(b.ZeroOrMore(b.NextNot(stop), expr.AnyToken), stop)
}

// ExclusiveTill consumes tokens up to, but not including, the first match
// of any of the alternatives.
func (b *Builder) ExclusiveTill(alternatives ...interface{}) expr.Expr {
	stop := b.FirstOf(alternatives...)
	return b.ZeroOrMore(b.NextNot(stop), expr.AnyToken)
}
