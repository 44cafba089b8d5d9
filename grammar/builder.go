package grammar

import (
	"github.com/chronos-tachyon/peggy/expr"
)

type slot struct {
	key        RuleKey
	body       expr.Expr
	overridden bool
	policy     SkipPolicy
	memoize    bool
}

// Builder assembles a Grammar.
//
// Combinator methods never return errors: the first definition error is
// remembered and reported by Build, and the offending combinator yields
// expr.Nothing in the meantime.
type Builder struct {
	mode  Mode
	slots []*slot
	byKey map[RuleKey]int
	root  RuleKey
	err   error
}

// NewBuilder returns a Builder for a character-mode grammar. Strings and
// runes given to combinators become literals.
func NewBuilder() *Builder {
	return &Builder{mode: CharacterMode, byKey: make(map[RuleKey]int)}
}

// NewTokenBuilder returns a Builder for a token-mode grammar. Strings given
// to combinators match token values and token.Type values match token types.
func NewTokenBuilder() *Builder {
	return &Builder{mode: TokenMode, byKey: make(map[RuleKey]int)}
}

// Extend returns a Builder pre-populated with the rules of g. Each rule may
// then be overridden once.
func Extend(g *Grammar) *Builder {
	b := &Builder{mode: g.mode, byKey: make(map[RuleKey]int, len(g.rules)), root: g.root}
	for _, r := range g.rules {
		b.byKey[r.key] = len(b.slots)
		b.slots = append(b.slots, &slot{
			key:     r.key,
			body:    r.body,
			policy:  r.policy,
			memoize: r.memoize,
		})
	}
	return b
}

// Mode returns the mode of the grammar under construction.
func (b *Builder) Mode() Mode { return b.mode }

// Err returns the first definition error recorded so far.
func (b *Builder) Err() error { return b.err }

// Rule returns a handle for the rule named by key, registering the key on
// first use. The handle may be used in expressions before the rule is
// defined.
func (b *Builder) Rule(key RuleKey) *RuleBuilder {
	if key == nil {
		b.fail(&DefinitionError{Err: ErrBadArgument})
		return &RuleBuilder{b: b, id: -1}
	}
	id, found := b.byKey[key]
	if !found {
		id = len(b.slots)
		b.slots = append(b.slots, &slot{key: key})
		b.byKey[key] = id
	}
	return &RuleBuilder{b: b, id: id}
}

// SetRoot designates the rule that parsing starts from.
func (b *Builder) SetRoot(key RuleKey) {
	b.Rule(key)
	b.root = key
}

// Build validates the rules and returns the finished Grammar.
func (b *Builder) Build() (*Grammar, error) {
	return b.build(false)
}

// BuildWithMemoization is like Build, but every rule is memoized.
func (b *Builder) BuildWithMemoization() (*Grammar, error) {
	return b.build(true)
}

func (b *Builder) build(memoizeAll bool) (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.root == nil {
		return nil, &DefinitionError{Err: ErrNoRootRule}
	}

	g := &Grammar{
		mode:  b.mode,
		rules: make([]*Rule, 0, len(b.slots)),
		byKey: make(map[RuleKey]*Rule, len(b.slots)),
		root:  b.root,
	}
	for id, s := range b.slots {
		if s.body == nil {
			return nil, &DefinitionError{Err: ErrRuleUndefined, Rule: s.key}
		}
		if key, found := b.firstUnknownRef(s.body); found {
			return nil, &DefinitionError{Err: ErrRuleUndefined, Rule: key}
		}
		r := &Rule{
			id:      id,
			key:     s.key,
			body:    s.body,
			policy:  s.policy,
			memoize: s.memoize || memoizeAll,
		}
		g.rules = append(g.rules, r)
		g.byKey[r.key] = r
	}
	return g, nil
}

// firstUnknownRef finds references to keys that never went through Rule,
// e.g. an expr.Ref built by hand.
func (b *Builder) firstUnknownRef(root expr.Expr) (RuleKey, bool) {
	stack := []expr.Expr{root}
	for len(stack) != 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ref, ok := e.(*expr.Ref); ok {
			if _, found := b.byKey[ref.Key]; !found {
				return ref.Key, true
			}
			continue
		}
		kids := expr.Children(e)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return nil, false
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// RuleBuilder is a handle on one rule of a Builder.
type RuleBuilder struct {
	b  *Builder
	id int
}

func (rb *RuleBuilder) slot() *slot {
	if rb.id < 0 {
		return &slot{}
	}
	return rb.b.slots[rb.id]
}

// Key returns the key naming this rule.
func (rb *RuleBuilder) Key() RuleKey { return rb.slot().key }

// Ref returns an expression referring to this rule.
func (rb *RuleBuilder) Ref() expr.Expr { return expr.NewRef(rb.slot().key) }

// Is defines the body of the rule as the sequence of the given items.
// Defining a rule twice is an error.
func (rb *RuleBuilder) Is(e interface{}, rest ...interface{}) *RuleBuilder {
	s := rb.slot()
	if s.body != nil {
		rb.b.fail(&DefinitionError{Err: ErrRuleRedefined, Rule: s.key})
		return rb
	}
	s.body = rb.b.sequence(s.key, append([]interface{}{e}, rest...))
	return rb
}

// Override replaces the body of the rule, whether or not it has been
// defined. A rule may be overridden only once.
func (rb *RuleBuilder) Override(e interface{}, rest ...interface{}) *RuleBuilder {
	s := rb.slot()
	if s.overridden {
		rb.b.fail(&DefinitionError{Err: ErrRuleOverridden, Rule: s.key})
		return rb
	}
	s.overridden = true
	s.body = rb.b.sequence(s.key, append([]interface{}{e}, rest...))
	return rb
}

// Skip elides this rule's node from the AST, splicing its children into
// the parent.
func (rb *RuleBuilder) Skip() *RuleBuilder {
	rb.slot().policy = SkipAlways
	return rb
}

// SkipIfOneChild elides this rule's node when it has exactly one child.
func (rb *RuleBuilder) SkipIfOneChild() *RuleBuilder {
	rb.slot().policy = SkipIfOneChild
	return rb
}

// Memoize caches the outcome of this rule at each input position.
func (rb *RuleBuilder) Memoize() *RuleBuilder {
	rb.slot().memoize = true
	return rb
}
