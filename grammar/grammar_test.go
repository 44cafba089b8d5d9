package grammar

import (
	"errors"
	"testing"

	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/token"
)

const (
	keyA = Key("A")
	keyB = Key("B")
	keyC = Key("C")
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()
	b.Rule(keyA).Is("a", keyB, b.Optional(keyC)).SkipIfOneChild()
	b.Rule(keyB).Is(b.OneOrMore('b')).Memoize()
	b.Rule(keyC).Is(b.Regexp(`c+`)).Skip()
	b.SetRoot(keyA)

	g, err := b.Build()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}
	if g.Mode() != CharacterMode {
		t.Errorf("%s: expected character mode, got %v", t.Name(), g.Mode())
	}
	if g.Root() != RuleKey(keyA) {
		t.Errorf("%s: expected root A, got %v", t.Name(), g.Root())
	}

	// Optional(keyC) registers C while A's arguments are evaluated, before
	// B is registered by Is.
	type testrow struct {
		Key     RuleKey
		Body    string
		Policy  SkipPolicy
		Memoize bool
	}

	data := []testrow{
		testrow{keyA, `sequence("a", B, optional(C))`, SkipIfOneChild, false},
		testrow{keyC, `regexp("c+")`, SkipAlways, false},
		testrow{keyB, `oneOrMore("b")`, SkipNever, true},
	}

	rules := g.Rules()
	if len(rules) != len(data) {
		t.Fatalf("%s: expected %d rules, got %d", t.Name(), len(data), len(rules))
	}
	for i, row := range data {
		r := rules[i]
		if r.Key() != row.Key || r.ID() != i {
			t.Errorf("%s/%03d: expected rule %v #%d, got %v #%d", t.Name(), i, row.Key, i, r.Key(), r.ID())
		}
		if actual := r.Expr().String(); actual != row.Body {
			t.Errorf("%s/%03d: expected body %q, got %q", t.Name(), i, row.Body, actual)
		}
		if r.Policy() != row.Policy {
			t.Errorf("%s/%03d: expected policy %v, got %v", t.Name(), i, row.Policy, r.Policy())
		}
		if r.Memoized() != row.Memoize {
			t.Errorf("%s/%03d: expected memoize %v, got %v", t.Name(), i, row.Memoize, r.Memoized())
		}
		if found, ok := g.Rule(row.Key); !ok || found != r {
			t.Errorf("%s/%03d: lookup by key failed", t.Name(), i)
		}
	}

	g, err = b.BuildWithMemoization()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}
	for i, r := range g.Rules() {
		if !r.Memoized() {
			t.Errorf("%s/%03d: rule %v is not memoized", t.Name(), i, r)
		}
	}
}

func TestBuilder_Errors(t *testing.T) {
	type testrow struct {
		Setup    func(b *Builder)
		Err      error
		Expected string
	}

	data := []testrow{
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is("a")
				b.Rule(keyA).Is("b")
				b.SetRoot(keyA)
			},
			Err:      ErrRuleRedefined,
			Expected: "github.com/chronos-tachyon/peggy/grammar: the rule 'A' has already been defined somewhere in the grammar",
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is("a", keyB)
				b.SetRoot(keyA)
			},
			Err:      ErrRuleUndefined,
			Expected: "github.com/chronos-tachyon/peggy/grammar: the rule 'B' hasn't been defined",
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is("a", expr.NewRef(keyC))
				b.SetRoot(keyA)
			},
			Err:      ErrRuleUndefined,
			Expected: "github.com/chronos-tachyon/peggy/grammar: the rule 'C' hasn't been defined",
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is("a")
			},
			Err:      ErrNoRootRule,
			Expected: "github.com/chronos-tachyon/peggy/grammar: no root rule has been set",
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Override("a")
				b.Rule(keyA).Override("b")
				b.SetRoot(keyA)
			},
			Err:      ErrRuleOverridden,
			Expected: "github.com/chronos-tachyon/peggy/grammar: the rule 'A' has already been overridden",
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is(b.Regexp(`[a-`))
				b.SetRoot(keyA)
			},
			Err: ErrBadPattern,
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is("a", 42)
				b.SetRoot(keyA)
			},
			Err: ErrBadArgument,
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is(token.Identifier)
				b.SetRoot(keyA)
			},
			Err: ErrBadArgument,
		},
		testrow{
			Setup: func(b *Builder) {
				b.Rule(keyA).Is(b.FirstOf())
				b.SetRoot(keyA)
			},
			Err:      ErrEmptyExpression,
			Expected: "github.com/chronos-tachyon/peggy/grammar: expression requires at least one sub-expression",
		},
	}

	for i, row := range data {
		b := NewBuilder()
		row.Setup(b)
		_, err := b.Build()
		if !errors.Is(err, row.Err) {
			t.Errorf("%s/%03d: expected %v, got %v", t.Name(), i, row.Err, err)
			continue
		}
		var de *DefinitionError
		if !errors.As(err, &de) {
			t.Errorf("%s/%03d: expected *DefinitionError, got %T", t.Name(), i, err)
			continue
		}
		if row.Expected != "" && err.Error() != row.Expected {
			t.Errorf("%s/%03d: expected %q, got %q", t.Name(), i, row.Expected, err.Error())
		}
	}
}

func TestExtend_Override(t *testing.T) {
	b := NewBuilder()
	b.Rule(keyA).Is("a", keyB)
	b.Rule(keyB).Is("b")
	b.SetRoot(keyA)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}

	ext := Extend(g)
	ext.Rule(keyB).Override(ext.FirstOf("b", "B"))
	g2, err := ext.Build()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}
	r, _ := g2.Rule(keyB)
	if actual, expected := r.Expr().String(), `firstOf("b", "B")`; actual != expected {
		t.Errorf("%s: expected %q, got %q", t.Name(), expected, actual)
	}
	r, _ = g.Rule(keyB)
	if actual, expected := r.Expr().String(), `"b"`; actual != expected {
		t.Errorf("%s: original grammar changed: expected %q, got %q", t.Name(), expected, actual)
	}

	ext.Rule(keyB).Override("c")
	if _, err := ext.Build(); !errors.Is(err, ErrRuleOverridden) {
		t.Errorf("%s: expected ErrRuleOverridden, got %v", t.Name(), err)
	}
}

func TestTokenBuilder(t *testing.T) {
	b := NewTokenBuilder()
	b.Rule(keyA).Is("if", token.Identifier, b.Adjacent("("), b.Till(")"))
	b.Rule(keyB).Is(b.AnyTokenButNot(token.EOF), b.IsOneOfThem(token.Literal, token.Constant))
	b.SetRoot(keyA)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}

	type testrow struct {
		Key      RuleKey
		Expected string
	}

	data := []testrow{
		testrow{keyA, `sequence("if", IDENTIFIER, sequence(adjacent, "("), sequence(zeroOrMore(sequence(nextNot(")"), anyToken)), ")"))`},
		testrow{keyB, `sequence(sequence(nextNot(EOF), anyToken), isOneOfThem(LITERAL, CONSTANT))`},
	}
	for i, row := range data {
		r, _ := g.Rule(row.Key)
		if actual := r.Expr().String(); actual != row.Expected {
			t.Errorf("%s/%03d: expected %q, got %q", t.Name(), i, row.Expected, actual)
		}
	}
}

func TestSkipPolicy_ShouldSkip(t *testing.T) {
	type testrow struct {
		Policy   SkipPolicy
		N        int
		Expected bool
	}

	data := []testrow{
		testrow{SkipNever, 0, false},
		testrow{SkipNever, 1, false},
		testrow{SkipAlways, 0, true},
		testrow{SkipAlways, 3, true},
		testrow{SkipIfOneChild, 0, false},
		testrow{SkipIfOneChild, 1, true},
		testrow{SkipIfOneChild, 2, false},
	}
	for i, row := range data {
		if actual := row.Policy.ShouldSkip(row.N); actual != row.Expected {
			t.Errorf("%s/%03d: %v(%d): expected %v, got %v", t.Name(), i, row.Policy, row.N, row.Expected, actual)
		}
	}
}
