// Package parser is the entry point for parsing: it compiles a grammar once
// and parses any number of inputs with it.
package parser

import (
	"log/slog"
	"time"

	"github.com/chronos-tachyon/peggy/ast"
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/peggyvm"
	"github.com/chronos-tachyon/peggy/token"
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	patternTimeout time.Duration
	rule           grammar.RuleKey
	builder        ast.NodeBuilder
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPatternTimeout bounds each regular expression match. A match that
// runs out of time is reported as a grammar error.
func WithPatternTimeout(d time.Duration) Option {
	return func(o *options) {
		o.patternTimeout = d
	}
}

// WithRule starts parsing from the rule named by key instead of the root.
func WithRule(key grammar.RuleKey) Option {
	return func(o *options) {
		o.rule = key
	}
}

// WithNodeBuilder sets the builder used by Build.
func WithNodeBuilder(b ast.NodeBuilder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// Parser parses input according to a compiled grammar. It is safe for
// concurrent use.
type Parser struct {
	g       *grammar.Grammar
	prog    *peggyvm.Program
	rule    grammar.RuleKey
	builder ast.NodeBuilder
	logger  *slog.Logger
}

// Result is a successful parse before AST conversion.
type Result struct {
	Root *peggyvm.ParseNode

	// Text is set for character input.
	Text *InputBuffer

	// Tokens is set for token input.
	Tokens []*token.Token
}

// New compiles g.
func New(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	o := options{patternTimeout: peggyvm.DefaultPatternTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.builder == nil {
		o.builder = ast.DefaultBuilder{}
	}

	rule := o.rule
	if rule == nil {
		rule = g.Root()
	}
	if _, found := g.Rule(rule); !found {
		return nil, &grammar.DefinitionError{Err: grammar.ErrRuleUndefined, Rule: rule}
	}

	prog, err := peggyvm.Compile(g, peggyvm.PatternTimeout(o.patternTimeout))
	if err != nil {
		o.logger.Warn("grammar does not compile", "err", err)
		return nil, err
	}

	o.logger.Debug("compiled grammar",
		"mode", g.Mode(),
		"rules", len(g.Rules()),
		"ops", len(prog.Ops),
		"start", rule.String())

	return &Parser{
		g:       g,
		prog:    prog,
		rule:    rule,
		builder: o.builder,
		logger:  o.logger,
	}, nil
}

// Grammar returns the grammar the parser was built from.
func (p *Parser) Grammar() *grammar.Grammar { return p.g }

// Program returns the compiled program shared by every parse.
func (p *Parser) Program() *peggyvm.Program { return p.prog }

// ParseString parses s with a character-mode grammar.
func (p *Parser) ParseString(s string) (*ast.Node, error) {
	return p.ParseRunes([]rune(s))
}

// ParseRunes parses rs with a character-mode grammar.
func (p *Parser) ParseRunes(rs []rune) (*ast.Node, error) {
	r, err := p.ParseTree(peggyvm.RuneInput(rs))
	if err != nil {
		return nil, err
	}
	n, _ := ast.FromText(r.Root, r.Text, ast.DefaultBuilder{}).(*ast.Node)
	return n, nil
}

// Build parses s with a character-mode grammar and converts the result with
// the configured NodeBuilder.
func (p *Parser) Build(s string) (interface{}, error) {
	r, err := p.ParseTree(peggyvm.RuneInput([]rune(s)))
	if err != nil {
		return nil, err
	}
	return ast.FromText(r.Root, r.Text, p.builder), nil
}

// ParseTokens parses tokens with a token-mode grammar.
func (p *Parser) ParseTokens(tokens []*token.Token) (*ast.Node, error) {
	r, err := p.ParseTree(peggyvm.TokenInput(tokens))
	if err != nil {
		return nil, err
	}
	return ast.FromTokens(r.Root, r.Tokens), nil
}

// ParseTree runs the grammar over in and returns the raw parse tree. The
// whole input must be consumed; in token mode a trailing EOF token may be
// left unconsumed.
func (p *Parser) ParseTree(in peggyvm.Input) (*Result, error) {
	r := &Result{}
	switch v := in.(type) {
	case peggyvm.RuneInput:
		r.Text = NewInputBuffer(v)
	case peggyvm.TokenInput:
		if len(v) == 0 {
			return nil, &ParseError{Err: ErrNoTokens, Line: 1, Message: "No tokens"}
		}
		r.Tokens = v
	}

	x, err := p.prog.Exec(in, p.rule)
	if err != nil {
		return nil, err
	}
	if err := x.Run(); err != nil {
		p.logger.Warn("parse aborted", "err", err)
		return nil, err
	}

	root, ok := x.Result()
	if ok && p.consumed(in, root.End) {
		r.Root = root
		return r, nil
	}

	index := x.Furthest
	if ok && root.End > index {
		index = root.End
	}
	p.logger.Debug("parse failed", "index", index, "matched", ok)
	return nil, r.newError(index)
}

func (p *Parser) consumed(in peggyvm.Input, end int) bool {
	n := in.Len()
	if end == n {
		return true
	}
	if tokens, ok := in.(peggyvm.TokenInput); ok {
		return end == n-1 && tokens[n-1].IsEOF()
	}
	return false
}

func (r *Result) newError(index int) *ParseError {
	if r.Text != nil {
		line, column := r.Text.Position(index)
		return &ParseError{
			Err:     ErrNoMatch,
			Index:   index,
			Line:    line,
			Column:  column,
			Message: FormatText(r.Text, index),
		}
	}
	line, column := tokenErrorPos(r.Tokens, index)
	return &ParseError{
		Err:     ErrNoMatch,
		Index:   index,
		Line:    line,
		Column:  column,
		Message: FormatTokens(r.Tokens, index),
	}
}
