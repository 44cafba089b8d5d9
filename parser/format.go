package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/peggy/token"
)

const (
	snippetLines  = 10
	snippetTokens = 30
)

var reLineBreak = regexp.MustCompile("\r\n|\n|\r")

// FormatText renders a parse error at index of buf, followed by the lines
// around it and a caret under the error column.
func FormatText(buf *InputBuffer, index int) string {
	line, column := buf.Position(index)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Parse error at line %d column %d:\n\n", line, column)

	first := max(line-snippetLines, 1)
	last := min(line+snippetLines, buf.LineCount())
	pad := len(strconv.Itoa(last))
	for n := first; n <= last; n++ {
		fmt.Fprintf(&sb, "%*d: ", pad, n)
		text := trimLineSeparator(buf.ExtractLine(n))
		sb.WriteString(strings.ReplaceAll(text, "\t", " "))
		sb.WriteByte('\n')
		if n == line {
			sb.WriteString(strings.Repeat(" ", column+pad+1))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

func trimLineSeparator(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	}
	return s
}

// FormatTokens renders a parse error at token index, followed by the source
// text reconstructed from the surrounding tokens. The line holding the error
// is marked with an arrow. tokens must not be empty.
func FormatTokens(tokens []*token.Token, index int) string {
	line, column := tokenErrorPos(tokens, index)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Parse error at line %d column %d:\n\n", line, column)

	window := tokens[max(index-snippetTokens, 0):min(index+snippetTokens, len(tokens))]
	if len(window) == 0 {
		window = tokens[len(tokens)-1:]
	}

	cur, col := window[0].Line, window[0].Column
	sb.WriteString(lineLabel(cur, line))
	for _, tok := range window {
		for cur < tok.Line {
			cur++
			col = 0
			sb.WriteByte('\n')
			sb.WriteString(lineLabel(cur, line))
		}
		for col < tok.Column {
			sb.WriteByte(' ')
			col++
		}
		parts := reLineBreak.Split(tok.OriginalValue, -1)
		sb.WriteString(parts[0])
		col += len([]rune(parts[0]))
		for _, part := range parts[1:] {
			cur++
			sb.WriteByte('\n')
			sb.WriteString(lineLabel(cur, line))
			sb.WriteString(part)
			col = len([]rune(part))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// tokenErrorPos is the start of the token at index, or the end of the last
// token if index is past the end.
func tokenErrorPos(tokens []*token.Token, index int) (line, column int) {
	if index < len(tokens) {
		return tokens[index].Line, tokens[index].Column
	}
	tok := tokens[len(tokens)-1]
	parts := reLineBreak.Split(tok.OriginalValue, -1)
	if len(parts) == 1 {
		return tok.Line, tok.Column + len([]rune(parts[0]))
	}
	return tok.Line + len(parts) - 1, len([]rune(parts[len(parts)-1]))
}

func lineLabel(n, errorLine int) string {
	if n == errorLine {
		return "  -->  "
	}
	return fmt.Sprintf("%5d: ", n)
}
