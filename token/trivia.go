package token

import (
	"strings"
)

// TriviaKind distinguishes the kinds of non-syntactic input.
type TriviaKind uint8

const (
	CommentTrivia TriviaKind = iota
	SkippedText
)

func (k TriviaKind) String() string {
	switch k {
	case CommentTrivia:
		return "comment"
	case SkippedText:
		return "skipped"
	}
	return "unknown"
}

// Trivia is a comment or skipped text attached to the next real token.
type Trivia struct {
	Kind   TriviaKind
	Tokens []*Token
}

// NewComment wraps a comment token as trivia.
func NewComment(tok *Token) Trivia {
	return Trivia{Kind: CommentTrivia, Tokens: []*Token{tok}}
}

func (t Trivia) IsComment() bool { return t.Kind == CommentTrivia }

// Text joins the original text of the trivia's tokens.
func (t Trivia) Text() string {
	var sb strings.Builder
	for _, tok := range t.Tokens {
		sb.WriteString(tok.OriginalValue)
	}
	return sb.String()
}
