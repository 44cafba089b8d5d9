package ast

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/peggyvm"
	"github.com/chronos-tachyon/peggy/token"
)

const (
	keyS     = grammar.Key("S")
	keyDecl  = grammar.Key("Decl")
	keyName  = grammar.Key("Name")
	keyValue = grammar.Key("Value")
	keyWS    = grammar.Key("WS")
	keyInner = grammar.Key("Inner")
)

var reNL = regexp.MustCompile(`(?m)^`)

func diff(l, r string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(l, r, false)
	pretty := dmp.DiffPrettyText(diffs)
	return reNL.ReplaceAllLiteralString(pretty, "\t")
}

type skipType string

func (t skipType) Name() string      { return string(t) }
func (t skipType) Value() string     { return string(t) }
func (t skipType) SkipFromAST() bool { return true }

const semi = skipType(";")

type testInput []rune

func (in testInput) Substring(from, to int) string { return string(in[from:to]) }

func (in testInput) Position(index int) (int, int) {
	line, column := 1, 1
	for _, r := range in[:index] {
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

type sexprBuilder struct {
	trivia []string
}

func (b *sexprBuilder) NonTerminal(key grammar.RuleKey, rule *peggyvm.Matcher, children []interface{}, from, to int) interface{} {
	parts := []string{key.String()}
	for _, child := range children {
		parts = append(parts, child.(string))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (b *sexprBuilder) Terminal(in Input, from, to int, trivia []token.Trivia, t token.Type) interface{} {
	for _, tr := range trivia {
		b.trivia = append(b.trivia, tr.Text())
	}
	return in.Substring(from, to)
}

func parse(t *testing.T, b *grammar.Builder, in peggyvm.Input) *peggyvm.ParseNode {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("%s: Build: %v", t.Name(), err)
	}
	p, err := peggyvm.Compile(g)
	if err != nil {
		t.Fatalf("%s: Compile: %v", t.Name(), err)
	}
	x, err := p.Exec(in, nil)
	if err != nil {
		t.Fatalf("%s: Exec: %v", t.Name(), err)
	}
	if err := x.Run(); err != nil {
		t.Fatalf("%s: Run: %v", t.Name(), err)
	}
	root, ok := x.Result()
	if !ok {
		t.Fatalf("%s: parse failed at %d", t.Name(), x.Furthest)
	}
	return root
}

// declGrammar is:
//
//	S     = Decl+ EOF
//	Decl  = "let" Name "=" Value ";"
//	Name  = IDENTIFIER               (skip if one child)
//	Value = CONSTANT | IDENTIFIER    (always skipped)
func declGrammar() *grammar.Builder {
	b := grammar.NewTokenBuilder()
	b.Rule(keyS).Is(b.OneOrMore(keyDecl), token.EOF)
	b.Rule(keyDecl).Is("let", keyName, "=", keyValue, token.Type(semi))
	b.Rule(keyName).Is(token.Identifier).SkipIfOneChild()
	b.Rule(keyValue).Is(b.FirstOf(token.Constant, token.Identifier)).Skip()
	b.SetRoot(keyS)
	return b
}

func declTokens() []*token.Token {
	return []*token.Token{
		token.New(token.Identifier, "let", 1, 0),
		token.New(token.Identifier, "x", 1, 4),
		token.New(token.UnknownChar, "=", 1, 6),
		token.New(token.Constant, "1", 1, 8),
		token.New(semi, ";", 1, 9),
		token.New(token.EOF, "", 1, 10),
	}
}

func TestFromTokens(t *testing.T) {
	tokens := declTokens()
	root := parse(t, declGrammar(), peggyvm.TokenInput(tokens))

	n := FromTokens(root, tokens)
	if n == nil {
		t.Fatalf("%s: nil AST", t.Name())
	}

	raw := `
		<S tokenValue="let" tokenLine="1" tokenColumn="0">
		  <Decl tokenValue="let" tokenLine="1" tokenColumn="0">
		    <IDENTIFIER tokenValue="let" tokenLine="1" tokenColumn="0"/>
		    <IDENTIFIER tokenValue="x" tokenLine="1" tokenColumn="4"/>
		    <UNKNOWN_CHAR tokenValue="=" tokenLine="1" tokenColumn="6"/>
		    <CONSTANT tokenValue="1" tokenLine="1" tokenColumn="8"/>
		  </Decl>
		  <EOF tokenLine="1" tokenColumn="10"/>
		</S>
	`
	expected := dedent.Dedent(raw)[1:]
	actual := n.Dump()
	if expected != actual {
		t.Errorf("%s: wrong output:\n%s", t.Name(), diff(expected, actual))
	}

	// Converting the same parse tree again gives the same AST.
	if again := FromTokens(root, tokens).Dump(); again != actual {
		t.Errorf("%s: conversion is not repeatable:\n%s", t.Name(), diff(actual, again))
	}
}

func TestNode_Navigation(t *testing.T) {
	tokens := declTokens()
	n := FromTokens(parse(t, declGrammar(), peggyvm.TokenInput(tokens)), tokens)

	if n.Parent() != nil {
		t.Errorf("%s: root has a parent", t.Name())
	}
	if n.IsTerminal() || n.Key != keyS {
		t.Errorf("%s: expected rule S at the root, got %v", t.Name(), n)
	}
	decl := n.FirstChild()
	if decl == nil || decl.Name != "Decl" {
		t.Fatalf("%s: expected Decl, got %v", t.Name(), decl)
	}
	if decl.Parent() != n {
		t.Errorf("%s: Decl has the wrong parent", t.Name())
	}
	if decl.NumChildren() != 4 {
		t.Errorf("%s: expected 4 children of Decl, got %d", t.Name(), decl.NumChildren())
	}
	if last := decl.LastChild(); last.TokenValue() != "1" || !last.IsTerminal() {
		t.Errorf("%s: expected terminal 1, got %v", t.Name(), last)
	}
	if eof := n.LastChild(); !eof.Token.IsEOF() || eof.FirstChild() != nil {
		t.Errorf("%s: expected EOF leaf, got %v", t.Name(), eof)
	}
	if decl.From != 0 || decl.To != 5 {
		t.Errorf("%s: expected Decl to span [0,5), got [%d,%d)", t.Name(), decl.From, decl.To)
	}

	ids := n.Descendants("IDENTIFIER")
	if len(ids) != 2 || ids[0].TokenValue() != "let" || ids[1].TokenValue() != "x" {
		t.Errorf("%s: wrong identifiers %v", t.Name(), ids)
	}

	var values []string
	for _, tok := range n.Tokens() {
		values = append(values, tok.Value)
	}
	if actual, expected := strings.Join(values, " "), "let x = 1 "; actual != expected {
		t.Errorf("%s: expected tokens %q, got %q", t.Name(), expected, actual)
	}

	if actual, expected := decl.String(), `Decl tokenValue="let" tokenLine=1 tokenColumn=0`; actual != expected {
		t.Errorf("%s: expected %q, got %q", t.Name(), expected, actual)
	}

	var nilChild *Node
	decl.AddChild(nilChild)
	if decl.NumChildren() != 4 {
		t.Errorf("%s: AddChild(nil) added a child", t.Name())
	}
}

func TestFromTokens_RootPolicy(t *testing.T) {
	type testrow struct {
		Policy   grammar.SkipPolicy
		Expected string
	}

	data := []testrow{
		testrow{grammar.SkipNever, "S"},
		testrow{grammar.SkipIfOneChild, "Inner"},
		testrow{grammar.SkipAlways, "Inner"},
	}

	tokens := []*token.Token{
		token.New(token.Identifier, "x", 1, 0),
		token.New(token.EOF, "", 1, 1),
	}

	for i, row := range data {
		b := grammar.NewTokenBuilder()
		rb := b.Rule(keyS).Is(keyInner)
		switch row.Policy {
		case grammar.SkipAlways:
			rb.Skip()
		case grammar.SkipIfOneChild:
			rb.SkipIfOneChild()
		}
		b.Rule(keyInner).Is(token.Identifier, token.EOF)
		b.SetRoot(keyS)

		n := FromTokens(parse(t, b, peggyvm.TokenInput(tokens)), tokens)
		if n.Name != row.Expected {
			t.Errorf("%s/%03d: expected root %s, got %s", t.Name(), i, row.Expected, n.Name)
		}
	}

	// An elided root with several children is kept.
	b := grammar.NewTokenBuilder()
	b.Rule(keyS).Is(token.Identifier, token.EOF).Skip()
	b.SetRoot(keyS)
	n := FromTokens(parse(t, b, peggyvm.TokenInput(tokens)), tokens)
	if n.Name != "S" || n.NumChildren() != 2 {
		t.Errorf("%s: expected S with 2 children, got %v with %d", t.Name(), n, n.NumChildren())
	}
}

func TestFromTokens_Deep(t *testing.T) {
	const depth = 50000

	// S = "(" S ")" | IDENTIFIER
	b := grammar.NewTokenBuilder()
	b.Rule(keyS).Is(b.FirstOf(b.Sequence("(", keyS, ")"), token.Identifier))
	b.SetRoot(keyS)

	tokens := make([]*token.Token, 0, 2*depth+1)
	for i := 0; i < depth; i++ {
		tokens = append(tokens, token.New(token.UnknownChar, "(", 1, i))
	}
	tokens = append(tokens, token.New(token.Identifier, "x", 1, depth))
	for i := 0; i < depth; i++ {
		tokens = append(tokens, token.New(token.UnknownChar, ")", 1, depth+1+i))
	}

	n := FromTokens(parse(t, b, peggyvm.TokenInput(tokens)), tokens)
	if len(n.Descendants("S")) != depth {
		t.Errorf("%s: expected %d nested rules", t.Name(), depth)
	}
}

// wordsGrammar is:
//
//	S  = WS (IDENTIFIER(/[a-z]+/) WS)+ endOfInput
//	WS = (skipped(/\s+/) | comment("#" /[^\n]*/))*   (always skipped)
func wordsGrammar() *grammar.Builder {
	b := grammar.NewBuilder()
	b.Rule(keyS).Is(keyWS, b.OneOrMore(b.Token(token.Identifier, b.Regexp(`[a-z]+`)), keyWS), b.EndOfInput())
	b.Rule(keyWS).Is(b.ZeroOrMore(b.FirstOf(
		b.SkippedTrivia(b.Regexp(`\s+`)),
		b.CommentTrivia("#", b.Regexp(`[^\n]*`)),
	))).Skip()
	b.SetRoot(keyS)
	return b
}

func TestFromText(t *testing.T) {
	in := testInput("foo # hi\nbar")
	root := parse(t, wordsGrammar(), peggyvm.RuneInput(in))

	n, ok := FromText(root, in, nil).(*Node)
	if !ok {
		t.Fatalf("%s: expected *Node", t.Name())
	}

	raw := `
		<S tokenValue="foo" tokenLine="1" tokenColumn="0">
		  <IDENTIFIER tokenValue="foo" tokenLine="1" tokenColumn="0"/>
		  <IDENTIFIER tokenValue="bar" tokenLine="2" tokenColumn="0"/>
		</S>
	`
	expected := dedent.Dedent(raw)[1:]
	actual := n.Dump()
	if expected != actual {
		t.Errorf("%s: wrong output:\n%s", t.Name(), diff(expected, actual))
	}

	foo, bar := n.FirstChild(), n.LastChild()
	if foo.Token.HasTrivia() {
		t.Errorf("%s: unexpected trivia on foo: %v", t.Name(), foo.Token.Trivia)
	}
	if len(bar.Token.Trivia) != 1 {
		t.Fatalf("%s: expected 1 trivia on bar, got %d", t.Name(), len(bar.Token.Trivia))
	}
	tr := bar.Token.Trivia[0]
	if !tr.IsComment() || tr.Text() != "# hi" {
		t.Errorf("%s: expected comment %q, got %v %q", t.Name(), "# hi", tr.Kind, tr.Text())
	}
	if c := tr.Tokens[0]; c.Type != token.Comment || c.Line != 1 || c.Column != 4 {
		t.Errorf("%s: wrong comment token %v", t.Name(), c)
	}
}

func TestFromText_Undefined(t *testing.T) {
	b := grammar.NewBuilder()
	b.Rule(keyS).Is("a", b.Regexp(`b+`))
	b.SetRoot(keyS)

	in := testInput("abb")
	n := FromText(parse(t, b, peggyvm.RuneInput(in)), in, DefaultBuilder{}).(*Node)

	raw := `
		<S tokenValue="a" tokenLine="1" tokenColumn="0">
		  <TOKEN tokenValue="a" tokenLine="1" tokenColumn="0"/>
		  <TOKEN tokenValue="bb" tokenLine="1" tokenColumn="1"/>
		</S>
	`
	expected := dedent.Dedent(raw)[1:]
	if actual := n.Dump(); expected != actual {
		t.Errorf("%s: wrong output:\n%s", t.Name(), diff(expected, actual))
	}
	if n.FirstChild().Token.Type != Undefined {
		t.Errorf("%s: expected undefined token type", t.Name())
	}
}

func TestFromText_CustomBuilder(t *testing.T) {
	in := testInput("foo # hi\nbar")
	root := parse(t, wordsGrammar(), peggyvm.RuneInput(in))

	b := &sexprBuilder{}
	actual := FromText(root, in, b)
	if expected := "(S foo bar)"; actual != expected {
		t.Errorf("%s: expected %q, got %q", t.Name(), expected, actual)
	}
	if len(b.trivia) != 1 || b.trivia[0] != "# hi" {
		t.Errorf("%s: expected one comment, got %q", t.Name(), b.trivia)
	}
}

func TestFromTokens_Nil(t *testing.T) {
	if FromTokens(nil, nil) != nil {
		t.Errorf("%s: expected nil", t.Name())
	}
	if FromText(nil, testInput(""), nil) != nil {
		t.Errorf("%s: expected nil", t.Name())
	}
}

func el(name string, id int, kids ...*Node) *Node {
	n := &Node{Name: name, From: id}
	for _, kid := range kids {
		n.AddChild(kid)
	}
	return n
}

// animalTree returns
//
//	animal@1
//	|__ dog@11
//	|__ animal@12
//	|    |__ animal@121
//	|    |__ tiger@122
//	|__ cat@13
func animalTree() *Node {
	return el("animal", 1,
		el("dog", 11),
		el("animal", 12, el("animal", 121), el("tiger", 122)),
		el("cat", 13))
}

type recorder struct {
	names []string
	tag   string
	log   *[]string
}

func (r *recorder) NodeNames() []string { return r.names }
func (r *recorder) VisitFile(n *Node)   { r.add("visitFile", n) }
func (r *recorder) LeaveFile(n *Node)   { r.add("leaveFile", n) }
func (r *recorder) VisitNode(n *Node)   { r.add("visitNode", n) }
func (r *recorder) LeaveNode(n *Node)   { r.add("leaveNode", n) }

func (r *recorder) add(event string, n *Node) {
	s := r.tag + event
	if n != nil {
		s += fmt.Sprintf(" %s@%d", n.Name, n.From)
	}
	*r.log = append(*r.log, s)
}

type tokenRecorder struct {
	*recorder
}

func (r tokenRecorder) VisitToken(tok *token.Token) {
	*r.log = append(*r.log, r.tag+"token "+tok.Value)
}

func TestWalk(t *testing.T) {
	type testrow struct {
		Names    []string
		Expected []string
	}

	data := []testrow{
		testrow{
			Names: nil,
			Expected: []string{
				"visitFile animal@1",
				"leaveFile animal@1",
			},
		},
		testrow{
			Names: []string{"tiger"},
			Expected: []string{
				"visitFile animal@1",
				"visitNode tiger@122",
				"leaveNode tiger@122",
				"leaveFile animal@1",
			},
		},
		testrow{
			Names: []string{"animal"},
			Expected: []string{
				"visitFile animal@1",
				"visitNode animal@1",
				"visitNode animal@12",
				"visitNode animal@121",
				"leaveNode animal@121",
				"leaveNode animal@12",
				"leaveNode animal@1",
				"leaveFile animal@1",
			},
		},
		testrow{
			Names: []string{"dog", "cat"},
			Expected: []string{
				"visitFile animal@1",
				"visitNode dog@11",
				"leaveNode dog@11",
				"visitNode cat@13",
				"leaveNode cat@13",
				"leaveFile animal@1",
			},
		},
		testrow{
			Names:    []string{"lion"},
			Expected: []string{"visitFile animal@1", "leaveFile animal@1"},
		},
	}

	for i, row := range data {
		var log []string
		Walk(animalTree(), &recorder{names: row.Names, log: &log})
		expected := strings.Join(row.Expected, "\n")
		actual := strings.Join(log, "\n")
		if expected != actual {
			t.Errorf("%s/%03d: wrong visits:\n%s", t.Name(), i, diff(expected, actual))
		}
	}
}

func TestWalker_VisitorOrder(t *testing.T) {
	var log []string
	w := NewWalker(&recorder{names: []string{"tiger"}, tag: "a:", log: &log})
	w.AddVisitor(&recorder{names: []string{"tiger"}, tag: "b:", log: &log})
	w.Walk(animalTree())

	expected := dedent.Dedent(`
		a:visitFile animal@1
		b:visitFile animal@1
		a:visitNode tiger@122
		b:visitNode tiger@122
		b:leaveNode tiger@122
		a:leaveNode tiger@122
		b:leaveFile animal@1
		a:leaveFile animal@1
	`)[1:]
	actual := strings.Join(log, "\n") + "\n"
	if expected != actual {
		t.Errorf("%s: wrong visits:\n%s", t.Name(), diff(expected, actual))
	}
}

func TestWalk_Tokens(t *testing.T) {
	x := token.New(token.Identifier, "x", 1, 0)
	one := token.New(token.Constant, "1", 1, 4)
	root := &Node{Key: keyS, Name: "S", Token: x}
	root.AddChild(&Node{Name: "IDENTIFIER", Token: x})
	root.AddChild(&Node{Name: "CONSTANT", Token: one, From: 1})

	var log []string
	Walk(root, tokenRecorder{&recorder{names: []string{"CONSTANT"}, log: &log}})

	expected := strings.Join([]string{
		"visitFile S@0",
		"token x",
		"visitNode CONSTANT@1",
		"token 1",
		"leaveNode CONSTANT@1",
		"leaveFile S@0",
	}, "\n")
	if actual := strings.Join(log, "\n"); expected != actual {
		t.Errorf("%s: wrong visits:\n%s", t.Name(), diff(expected, actual))
	}

	log = nil
	Walk(nil, &recorder{log: &log})
	if actual := strings.Join(log, ","); actual != "visitFile,leaveFile" {
		t.Errorf("%s: wrong visits for nil tree: %s", t.Name(), actual)
	}
}

type depthCounter struct {
	NopVisitor
	visits, leaves int
	depth, deepest int
}

func (c *depthCounter) NodeNames() []string { return []string{"n"} }

func (c *depthCounter) VisitNode(*Node) {
	c.visits++
	c.depth++
	if c.depth > c.deepest {
		c.deepest = c.depth
	}
}

func (c *depthCounter) LeaveNode(*Node) {
	c.leaves++
	c.depth--
}

func TestWalk_Deep(t *testing.T) {
	const depth = 100000

	root := el("n", 0)
	n := root
	for i := 1; i < depth; i++ {
		child := el("n", i)
		n.AddChild(child)
		n = child
	}

	c := &depthCounter{}
	Walk(root, c)
	if c.visits != depth || c.leaves != depth || c.deepest != depth || c.depth != 0 {
		t.Errorf("%s: visits=%d leaves=%d deepest=%d depth=%d", t.Name(), c.visits, c.leaves, c.deepest, c.depth)
	}
}

// queryTree returns
//
//	A@1
//	|__ C@11
//	|    |__ B@111
//	|__ B@12 (token "y" at 2:3)
//	|__ B@13 (token "z" at 3:0)
func queryTree() (a, c, b111 *Node) {
	b111 = el("B", 111)
	c = el("C", 11, b111)
	b12 := el("B", 12)
	b12.Token = token.New(token.Identifier, "y", 2, 3)
	b13 := el("B", 13)
	b13.Token = token.New(token.Identifier, "z", 3, 0)
	a = el("A", 1, c, b12, b13)
	return a, c, b111
}

func ids(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = fmt.Sprintf("%s@%d", n.Name, n.From)
	}
	return strings.Join(parts, " ")
}

func TestQuery_SelectNodes(t *testing.T) {
	a, c, b111 := queryTree()

	type testrow struct {
		Path     string
		Context  *Node
		Expected string
	}

	data := []testrow{
		testrow{"/A/B", a, "B@12 B@13"},
		testrow{"/A/B", b111, "B@12 B@13"},
		testrow{"//B", a, "B@111 B@12 B@13"},
		testrow{"//A", c, "A@1"},
		testrow{"//D", a, ""},
		testrow{"C/B", a, "B@111"},
		testrow{"B", c, "B@111"},
		testrow{".", c, "C@11"},
		testrow{"./B", c, "B@111"},
		testrow{"..", c, "A@1"},
		testrow{"../B", c, "B@12 B@13"},
		testrow{"/A", b111, "A@1"},
		testrow{"B[@tokenValue='z']", a, "B@13"},
		testrow{"//*[@tokenLine='2' and @tokenColumn='3']", a, "B@12"},
		testrow{"//B[not(@tokenValue)]", a, "B@111"},
		testrow{"//B/@tokenValue", a, ""},
	}

	for i, row := range data {
		q, err := NewQuery(row.Path)
		if err != nil {
			t.Errorf("%s/%03d: %q: unexpected error: %v", t.Name(), i, row.Path, err)
			continue
		}
		if actual := ids(q.SelectNodes(row.Context)); actual != row.Expected {
			t.Errorf("%s/%03d: %q: expected %q, got %q", t.Name(), i, row.Path, row.Expected, actual)
		}
	}
}

func TestQuery_SelectSingleNode(t *testing.T) {
	a, c, _ := queryTree()

	if n := MustQuery("/A/B").SelectSingleNode(a); n == nil || n.From != 12 {
		t.Errorf("%s: expected B@12, got %v", t.Name(), n)
	}
	if n := MustQuery("B").SelectSingleNode(c); n == nil || n.From != 111 {
		t.Errorf("%s: expected B@111, got %v", t.Name(), n)
	}
	if n := MustQuery("B").SelectSingleNode(el("A", 0)); n != nil {
		t.Errorf("%s: expected no match, got %v", t.Name(), n)
	}

	// Queries are reusable across trees.
	q := MustQuery("//B")
	if actual := len(q.SelectNodes(a)); actual != 3 {
		t.Errorf("%s: expected 3 matches, got %d", t.Name(), actual)
	}
	if actual := len(q.SelectNodes(el("A", 0, el("B", 1)))); actual != 1 {
		t.Errorf("%s: expected 1 match, got %d", t.Name(), actual)
	}
}

func TestQuery_Evaluate(t *testing.T) {
	a, _, _ := queryTree()

	if v, ok := MustQuery("count(/A/*)").Evaluate(a).(float64); !ok || v != 3 {
		t.Errorf("%s: expected 3, got %v", t.Name(), MustQuery("count(/A/*)").Evaluate(a))
	}
	if v, ok := MustQuery("/A/B").Evaluate(a).([]*Node); !ok || ids(v) != "B@12 B@13" {
		t.Errorf("%s: wrong node set: %v", t.Name(), MustQuery("/A/B").Evaluate(a))
	}

	if _, err := NewQuery("/A["); err == nil {
		t.Errorf("%s: expected an error for a malformed query", t.Name())
	}
}
