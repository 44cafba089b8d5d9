package peggyvm

import (
	"fmt"
	"reflect"
	"time"

	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/grammar"
)

// DefaultPatternTimeout bounds a single regular expression match.
const DefaultPatternTimeout = time.Second

type compileOptions struct {
	patternTimeout time.Duration
}

// CompileOption customizes Compile.
type CompileOption func(*compileOptions)

// PatternTimeout sets the time limit for a single pattern match. A pattern
// that runs past it stops the parse with ErrPatternFailure. Zero or less
// disables the limit.
func PatternTimeout(d time.Duration) CompileOption {
	return func(o *compileOptions) {
		o.patternTimeout = d
	}
}

type compiler struct {
	a      *Assembler
	g      *grammar.Grammar
	opts   compileOptions
	labels map[expr.RuleKey]string
	rule   *grammar.Rule
	nextL  int
}

// Compile translates a grammar into a Program.
//
// Rules are emitted in definition order, each as a public label followed by
// the rule body and a RET. Address 0 holds the END instruction that the
// start rule returns to.
func Compile(g *grammar.Grammar, opts ...CompileOption) (*Program, error) {
	c := &compiler{
		a:      NewAssembler(),
		g:      g,
		opts:   compileOptions{patternTimeout: DefaultPatternTimeout},
		labels: make(map[expr.RuleKey]string),
	}
	for _, opt := range opts {
		opt(&c.opts)
	}

	rules := g.Rules()
	used := make(map[string]bool, len(rules))
	for _, r := range rules {
		name := ruleLabel(r)
		if used[name] {
			name = fmt.Sprintf("%s#%d", name, r.ID())
		}
		used[name] = true
		c.labels[r.Key()] = name

		id := c.a.DeclareMatcher(&Matcher{
			Kind:    RuleMatcher,
			Name:    r.Key().String(),
			Expr:    r.Expr(),
			Key:     r.Key(),
			Policy:  r.Policy(),
			Memoize: r.Memoized(),
		})
		assert(id == uint64(r.ID()), "rule %s has ID %d, matcher %d", r, r.ID(), id)
	}

	c.a.EmitOp(OpEND.Meta(), nil, nil, nil)
	for _, r := range rules {
		c.rule = r
		c.a.EmitLabel(c.labels[r.Key()])
		if err := c.compile(r.Expr()); err != nil {
			return nil, err
		}
		c.a.EmitOp(OpRET.Meta(), nil, nil, nil)
	}

	p, err := c.a.Finish()
	if err != nil {
		return nil, err
	}
	p.Mode = g.Mode()
	p.Root = g.Root()
	for key, name := range c.labels {
		p.RuleEntry[key] = p.LabelsByName[name].Offset
	}
	return p, nil
}

func (c *compiler) label() *AsmItem {
	c.nextL++
	return c.a.GrabLabel(fmt.Sprintf(".L%d", c.nextL))
}

func (c *compiler) emit(code OpCode, imm0, imm1, imm2 interface{}) {
	c.a.EmitOp(code.Meta(), imm0, imm1, imm2)
}

func (c *compiler) terminal(e expr.Expr) uint64 {
	return c.a.DeclareMatcher(&Matcher{
		Kind: TerminalMatcher,
		Name: e.String(),
		Expr: e,
	})
}

func (c *compiler) modeError(e expr.Expr) error {
	return &GrammarError{
		Err:     ErrModeMismatch,
		Rule:    c.rule.Key().String(),
		Pattern: e.String(),
	}
}

func (c *compiler) compile(e expr.Expr) error {
	tokenMode := c.g.Mode() == grammar.TokenMode

	switch x := e.(type) {
	case *expr.Sequence:
		for _, item := range x.Items {
			if err := c.compile(item); err != nil {
				return err
			}
		}

	case *expr.FirstOf:
		done := c.label()
		last := len(x.Items) - 1
		for i, item := range x.Items {
			if i == last {
				if err := c.compile(item); err != nil {
					return err
				}
				break
			}
			next := c.label()
			c.emit(OpCHOICE, next, nil, nil)
			if err := c.compile(item); err != nil {
				return err
			}
			c.emit(OpCOMMIT, done, nil, nil)
			c.a.EmitLabel(next.Name)
		}
		c.a.EmitLabel(done.Name)

	case *expr.Optional:
		done := c.label()
		c.emit(OpCHOICE, done, nil, nil)
		if err := c.compile(x.Sub); err != nil {
			return err
		}
		c.emit(OpCOMMIT, done, nil, nil)
		c.a.EmitLabel(done.Name)

	case *expr.ZeroOrMore:
		loop, done := c.label(), c.label()
		c.a.EmitLabel(loop.Name)
		c.emit(OpCHOICE, done, nil, nil)
		if err := c.compile(x.Sub); err != nil {
			return err
		}
		c.emit(OpCOMMITV, loop, nil, nil)
		c.a.EmitLabel(done.Name)

	case *expr.OneOrMore:
		loop, again, fail, done := c.label(), c.label(), c.label(), c.label()
		c.emit(OpCHOICE, fail, nil, nil)
		c.a.EmitLabel(loop.Name)
		if err := c.compile(x.Sub); err != nil {
			return err
		}
		c.emit(OpCOMMITV, again, nil, nil)
		c.a.EmitLabel(again.Name)
		c.emit(OpCHOICE, done, nil, nil)
		c.emit(OpJMP, loop, nil, nil)
		c.a.EmitLabel(fail.Name)
		c.emit(OpFAIL, nil, nil, nil)
		c.a.EmitLabel(done.Name)

	case *expr.Next:
		fail, done := c.label(), c.label()
		c.emit(OpPCHOICE, fail, nil, nil)
		if err := c.compile(x.Sub); err != nil {
			return err
		}
		c.emit(OpBCOMMIT, done, nil, nil)
		c.a.EmitLabel(fail.Name)
		c.emit(OpFAIL, nil, nil, nil)
		c.a.EmitLabel(done.Name)

	case *expr.NextNot:
		done := c.label()
		c.emit(OpPCHOICE, done, nil, nil)
		if err := c.compile(x.Sub); err != nil {
			return err
		}
		c.emit(OpFAIL2X, nil, nil, nil)
		c.a.EmitLabel(done.Name)

	case *expr.Ref:
		r, found := c.g.Rule(x.Key)
		if !found {
			return &grammar.DefinitionError{Err: grammar.ErrRuleUndefined, Rule: x.Key}
		}
		c.emit(OpCALL, c.a.GrabLabel(c.labels[x.Key]), r.ID(), nil)

	case *expr.Token:
		m := &Matcher{Kind: TokenMatcher, Name: x.Type.Name(), Expr: x, TokenType: x.Type}
		return c.wrapper(m, x.Sub)

	case *expr.Trivia:
		m := &Matcher{Kind: TriviaMatcher, Name: x.Kind.String(), Expr: x, Trivia: x.Kind}
		return c.wrapper(m, x.Sub)

	case *expr.Literal:
		if tokenMode {
			c.emit(OpTVAL, c.a.DeclareLiteral(x.Text), c.terminal(x), nil)
		} else {
			c.emit(OpLIT, c.a.DeclareLiteral(x.Text), c.terminal(x), nil)
		}

	case *expr.Pattern:
		if tokenMode {
			return c.modeError(x)
		}
		re, err := expr.CompilePattern(x.Source)
		if err != nil {
			return &GrammarError{Err: ErrPatternFailure, Rule: c.rule.Key().String(), Pattern: x.Source, Cause: err}
		}
		if c.opts.patternTimeout > 0 {
			re.MatchTimeout = c.opts.patternTimeout
		}
		idx := c.a.DeclarePattern(&Pattern{Source: x.Source, Re: re})
		c.emit(OpPAT, idx, c.terminal(x), nil)

	case *expr.Class:
		if tokenMode {
			return c.modeError(x)
		}
		c.emit(OpCLASS, c.a.DeclareCharSet(x.Set), c.terminal(x), nil)

	case *expr.TokenValue:
		if !tokenMode {
			return c.modeError(x)
		}
		c.emit(OpTVAL, c.a.DeclareLiteral(x.Value), c.terminal(x), nil)

	case *expr.TokenType:
		if !tokenMode {
			return c.modeError(x)
		}
		c.emit(OpTTYPE, c.a.DeclareTokenType(x.Type), c.terminal(x), nil)

	case *expr.TokenTypeClass:
		if !tokenMode {
			return c.modeError(x)
		}
		c.emit(OpTCLASS, c.a.DeclareClass(x.Class), c.terminal(x), nil)

	case *expr.TokenTypes:
		if !tokenMode {
			return c.modeError(x)
		}
		c.emit(OpTTYPES, c.a.DeclareTypeSet(x.Types), c.terminal(x), nil)

	case *expr.Bridge:
		if !tokenMode {
			return c.modeError(x)
		}
		from, to := c.a.DeclareTokenType(x.From), c.a.DeclareTokenType(x.To)
		c.emit(OpBRIDGE, from, to, c.terminal(x))

	default:
		return c.compileSingleton(e, tokenMode)
	}
	return nil
}

func (c *compiler) compileSingleton(e expr.Expr, tokenMode bool) error {
	switch e {
	case expr.Nothing:
		c.emit(OpFAIL, nil, nil, nil)

	case expr.EndOfInput:
		c.emit(OpEOI, nil, nil, nil)

	case expr.AnyChar:
		if tokenMode {
			return c.modeError(e)
		}
		c.emit(OpANY, c.terminal(e), nil, nil)

	case expr.AnyToken:
		if !tokenMode {
			return c.modeError(e)
		}
		c.emit(OpTANY, c.terminal(e), nil, nil)

	case expr.Adjacent:
		if !tokenMode {
			return c.modeError(e)
		}
		c.emit(OpADJ, nil, nil, nil)

	case expr.TillNewLine:
		if !tokenMode {
			return c.modeError(e)
		}
		c.emit(OpTILLNL, c.terminal(e), nil, nil)

	default:
		return &GrammarError{
			Err:     ErrUnknownExpr,
			Rule:    c.rule.Key().String(),
			Pattern: fmt.Sprintf("%s (%v)", e, reflect.TypeOf(e)),
		}
	}
	return nil
}

// wrapper emits a token or trivia node around sub:
//
//	CALL L1; JMP L2; L1: IGNERR; sub; RET; L2:
//
// Failures inside sub do not count towards the furthest failure; a failure
// of the wrapper as a whole is recorded at its start position instead.
func (c *compiler) wrapper(m *Matcher, sub expr.Expr) error {
	id := c.a.DeclareMatcher(m)
	body, done := c.label(), c.label()
	c.emit(OpCALL, body, id, nil)
	c.emit(OpJMP, done, nil, nil)
	c.a.EmitLabel(body.Name)
	c.emit(OpIGNERR, nil, nil, nil)
	if err := c.compile(sub); err != nil {
		return err
	}
	c.emit(OpRET, nil, nil, nil)
	c.a.EmitLabel(done.Name)
	return nil
}
