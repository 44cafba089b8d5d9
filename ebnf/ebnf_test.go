package ebnf

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/parser"
)

var reNL = regexp.MustCompile(`(?m)^`)

func diff(l, r string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(l, r, false)
	pretty := dmp.DiffPrettyText(diffs)
	return reNL.ReplaceAllLiteralString(pretty, "\t")
}

const assignEBNF = `
Assign = ident "=" ( number | ident ) [ ";" ] .
ident  = letter { letter | digit } .
number = digit { digit } .
letter = "a" … "z" | "_" .
digit  = "0" … "9" .
`

func mustLoad(t *testing.T, src, start string) *parser.Parser {
	t.Helper()
	b, err := Load("test.ebnf", strings.NewReader(src), start)
	if err != nil {
		t.Fatalf("%s: Load: %v", t.Name(), err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("%s: Build: %v", t.Name(), err)
	}
	p, err := parser.New(g)
	if err != nil {
		t.Fatalf("%s: New: %v", t.Name(), err)
	}
	return p
}

func TestLoad(t *testing.T) {
	p := mustLoad(t, assignEBNF, "Assign")

	var keys []string
	for _, r := range p.Grammar().Rules() {
		keys = append(keys, r.Key().String())
	}
	if actual, expected := strings.Join(keys, " "), "Assign digit ident letter number"; actual != expected {
		t.Errorf("%s: expected rules %q, got %q", t.Name(), expected, actual)
	}
	if p.Grammar().Root() != grammar.Key("Assign") {
		t.Errorf("%s: wrong root %v", t.Name(), p.Grammar().Root())
	}

	n, err := p.ParseString("x1=42")
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", t.Name(), err)
	}
	raw := `
		<Assign tokenValue="x1" tokenLine="1" tokenColumn="0">
		  <ident tokenValue="x1" tokenLine="1" tokenColumn="0"/>
		  <TOKEN tokenValue="=" tokenLine="1" tokenColumn="2"/>
		  <number tokenValue="42" tokenLine="1" tokenColumn="3"/>
		</Assign>
	`
	expected := dedent.Dedent(raw)[1:]
	if actual := n.Dump(); expected != actual {
		t.Errorf("%s: wrong output:\n%s", t.Name(), diff(expected, actual))
	}
	if n.FirstChild().Token.Type != TokenType("ident") {
		t.Errorf("%s: expected ident token type, got %v", t.Name(), n.FirstChild().Token.Type)
	}
}

func TestLoad_Matching(t *testing.T) {
	type testrow struct {
		Input    string
		Expected bool
	}

	data := []testrow{
		testrow{"a=b", true},
		testrow{"a_b=c9;", true},
		testrow{"x=0", true},
		testrow{"x = 0", false},
		testrow{"9=x", false},
		testrow{"x=", false},
		testrow{"x=1;;", false},
	}

	p := mustLoad(t, assignEBNF, "Assign")
	for i, row := range data {
		_, err := p.ParseString(row.Input)
		if actual := err == nil; actual != row.Expected {
			t.Errorf("%s/%03d: %q: expected match=%v, got error %v", t.Name(), i, row.Input, row.Expected, err)
		}
		if err != nil && !errors.Is(err, parser.ErrNoMatch) {
			t.Errorf("%s/%03d: %q: expected ErrNoMatch, got %v", t.Name(), i, row.Input, err)
		}
	}
}

func TestLoad_Empty(t *testing.T) {
	p := mustLoad(t, `Program = .`, "Program")
	if _, err := p.ParseString(""); err != nil {
		t.Errorf("%s: unexpected error: %v", t.Name(), err)
	}
	if _, err := p.ParseString("x"); err == nil {
		t.Errorf("%s: expected an error", t.Name())
	}
}

func TestLoad_Errors(t *testing.T) {
	type testrow struct {
		Source string
		Start  string
	}

	data := []testrow{
		testrow{`Program = | .`, "Program"},
		testrow{`Program = a … b .`, "Program"},
		testrow{`Program = Missing .`, "Program"},
		testrow{`Program = "a" . Unused = "b" .`, "Program"},
		testrow{`Program = "a" .`, "Start"},
		testrow{`Program = "ab" … "z" .`, "Program"},
	}

	for i, row := range data {
		if _, err := Load("bad.ebnf", strings.NewReader(row.Source), row.Start); err == nil {
			t.Errorf("%s/%03d: %q: expected an error", t.Name(), i, row.Source)
		}
	}
}

func TestIsLexical(t *testing.T) {
	type testrow struct {
		Name     string
		Expected bool
	}

	data := []testrow{
		testrow{"Program", false},
		testrow{"ident", true},
		testrow{"_x", true},
		testrow{"Ärger", false},
	}

	for i, row := range data {
		if actual := IsLexical(row.Name); actual != row.Expected {
			t.Errorf("%s/%03d: %q: expected %v, got %v", t.Name(), i, row.Name, row.Expected, actual)
		}
	}
}
