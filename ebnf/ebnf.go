// Package ebnf builds character-mode grammars from EBNF text in the notation
// of golang.org/x/exp/ebnf.
//
// Each production becomes a rule keyed by its name. Alternatives are tried
// in order, [ ... ] is optional, { ... } repeats zero or more times and
// "a" … "z" matches one character of the range. Productions whose names do
// not start with an uppercase letter are lexical: their match becomes one
// terminal whose token type is named after the production.
//
// Unlike EBNF, the resulting grammar does not skip white space between
// tokens; the grammar must spell it out.
package ebnf

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	goebnf "golang.org/x/exp/ebnf"

	"github.com/chronos-tachyon/peggy/charset"
	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/grammar"
)

var (
	ErrBadExpression = errors.New("malformed EBNF expression")
	ErrBadRange      = errors.New("range bounds must be single characters")
)

// TokenType is the token type of the terminals produced by a lexical
// production.
type TokenType string

func (t TokenType) Name() string      { return string(t) }
func (t TokenType) Value() string     { return string(t) }
func (t TokenType) SkipFromAST() bool { return false }

// IsLexical reports whether the production called name is lexical.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// Load parses and verifies the EBNF grammar in r, then translates it with
// start as the root rule. The start rule is defined first; the others follow
// in name order.
func Load(filename string, r io.Reader, start string) (*grammar.Builder, error) {
	g, err := goebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if err := goebnf.Verify(g, start); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(g))
	for name := range g {
		if name != start {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{start}, names...)

	b := grammar.NewBuilder()
	for _, name := range names {
		b.Rule(grammar.Key(name))
	}
	for _, name := range names {
		prod := g[name]
		e, err := translate(b, prod.Expr)
		if err != nil {
			return nil, fmt.Errorf("%s: production %s: %w", prod.Pos(), name, err)
		}
		rb := b.Rule(grammar.Key(name))
		if IsLexical(name) {
			rb.Is(b.Token(TokenType(name), e)).SkipIfOneChild()
		} else {
			rb.Is(e)
		}
	}
	b.SetRoot(grammar.Key(start))
	return b, b.Err()
}

func translate(b *grammar.Builder, x goebnf.Expression) (expr.Expr, error) {
	switch x := x.(type) {
	case nil:
		// Empty production.
		return b.Optional(b.Nothing()), nil

	case goebnf.Alternative:
		items, err := translateAll(b, x)
		if err != nil {
			return nil, err
		}
		return b.FirstOf(items...), nil

	case goebnf.Sequence:
		items, err := translateAll(b, x)
		if err != nil {
			return nil, err
		}
		return b.Sequence(items...), nil

	case *goebnf.Name:
		return b.Rule(grammar.Key(x.String)).Ref(), nil

	case *goebnf.Token:
		return expr.NewLiteral(x.String), nil

	case *goebnf.Range:
		lo, ok1 := singleRune(x.Begin.String)
		hi, ok2 := singleRune(x.End.String)
		if !ok1 || !ok2 || lo > hi {
			return nil, fmt.Errorf("%s: %q … %q: %w", x.Pos(), x.Begin.String, x.End.String, ErrBadRange)
		}
		return b.Class(charset.Ranges(charset.Range{Lo: lo, Hi: hi})), nil

	case *goebnf.Group:
		return translate(b, x.Body)

	case *goebnf.Option:
		body, err := translate(b, x.Body)
		if err != nil {
			return nil, err
		}
		return b.Optional(body), nil

	case *goebnf.Repetition:
		body, err := translate(b, x.Body)
		if err != nil {
			return nil, err
		}
		return b.ZeroOrMore(body), nil

	case *goebnf.Bad:
		return nil, fmt.Errorf("%s: %s: %w", x.Pos(), x.Error, ErrBadExpression)
	}
	return nil, fmt.Errorf("%T: %w", x, ErrBadExpression)
}

func translateAll(b *grammar.Builder, list []goebnf.Expression) ([]interface{}, error) {
	out := make([]interface{}, len(list))
	for i, x := range list {
		e, err := translate(b, x)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	return r, size > 0 && size == len(s) && r != utf8.RuneError
}
