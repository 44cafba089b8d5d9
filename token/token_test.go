package token

import (
	"testing"
)

func TestGenericType_Name(t *testing.T) {
	type testrow struct {
		Type     GenericType
		Expected string
	}

	data := []testrow{
		testrow{EOF, "EOF"},
		testrow{Identifier, "IDENTIFIER"},
		testrow{Literal, "LITERAL"},
		testrow{Constant, "CONSTANT"},
		testrow{Comment, "COMMENT"},
		testrow{UnknownChar, "UNKNOWN_CHAR"},
		testrow{GenericType(42), "GenericType(42)"},
	}

	for i, row := range data {
		actual := row.Type.Name()
		if actual != row.Expected {
			t.Errorf("%s/%03d: expected %q, got %q", t.Name(), i, row.Expected, actual)
		}
		if row.Type.SkipFromAST() {
			t.Errorf("%s/%03d: generic types must not be skipped", t.Name(), i)
		}
	}
}

func TestToken_String(t *testing.T) {
	tok := New(Identifier, "foo", 3, 7)
	if actual, expected := tok.String(), `IDENTIFIER "foo" @ 3:7`; actual != expected {
		t.Errorf("%s: expected %q, got %q", t.Name(), expected, actual)
	}
	if tok.IsEOF() {
		t.Errorf("%s: identifier reported as EOF", t.Name())
	}
	if !New(EOF, "", 4, 0).IsEOF() {
		t.Errorf("%s: EOF not reported as EOF", t.Name())
	}
}

func TestTrivia_Text(t *testing.T) {
	tr := Trivia{
		Kind: CommentTrivia,
		Tokens: []*Token{
			New(Comment, "/* a */", 1, 0),
			New(Comment, "// b", 1, 8),
		},
	}
	if !tr.IsComment() {
		t.Errorf("%s: expected comment trivia", t.Name())
	}
	if actual, expected := tr.Text(), "/* a */// b"; actual != expected {
		t.Errorf("%s: expected %q, got %q", t.Name(), expected, actual)
	}
}
