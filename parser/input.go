package parser

import (
	"sort"
)

// InputBuffer holds character input together with its table of line starts.
//
// A line ends after a line feed, or after a carriage return that is not
// followed by a line feed.
type InputBuffer struct {
	runes []rune
	lines []int
}

// NewInputBuffer indexes the lines of rs.
func NewInputBuffer(rs []rune) *InputBuffer {
	lines := make([]int, 1, 16)
	for i, r := range rs {
		if r == '\n' || (r == '\r' && (i+1 == len(rs) || rs[i+1] != '\n')) {
			lines = append(lines, i+1)
		}
	}
	lines = append(lines, len(rs))
	return &InputBuffer{runes: rs, lines: lines}
}

func (buf *InputBuffer) Len() int       { return len(buf.runes) }
func (buf *InputBuffer) Runes() []rune  { return buf.runes }
func (buf *InputBuffer) LineCount() int { return len(buf.lines) - 1 }

// Substring returns the text in [from, to).
func (buf *InputBuffer) Substring(from, to int) string {
	return string(buf.runes[from:to])
}

// ExtractLine returns the text of the 1-based line n, including its line
// separator.
func (buf *InputBuffer) ExtractLine(n int) string {
	return string(buf.runes[buf.lines[n-1]:buf.lines[n]])
}

// Position returns the 1-based line and column of index. Indices at or past
// the end of input belong to the last line.
func (buf *InputBuffer) Position(index int) (line, column int) {
	line = buf.lineNumber(index)
	column = index - buf.lines[line-1] + 1
	return line, column
}

func (buf *InputBuffer) lineNumber(index int) int {
	i := sort.SearchInts(buf.lines, index)
	if i < len(buf.lines) && buf.lines[i] == index {
		i++
	}
	return min(max(i, 1), buf.LineCount())
}
