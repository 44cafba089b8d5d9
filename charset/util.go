package charset

import (
	"bytes"
	"fmt"
	"sort"
)

type runeSlice []rune

var _ sort.Interface = (runeSlice)(nil)

func (x runeSlice) Len() int           { return len(x) }
func (x runeSlice) Less(i, j int) bool { return x[i] < x[j] }
func (x runeSlice) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

func collectRanges(m Matcher) []Range {
	var out []Range
	m.ForEachRange(func(r Range) { out = append(out, r) })
	return out
}

func genericString(m Matcher) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	m.ForEachRange(func(r Range) {
		writeSetRune(&buf, r.Lo)
		switch {
		case r.Hi == r.Lo:
		case r.Hi == r.Lo+1:
			writeSetRune(&buf, r.Hi)
		default:
			buf.WriteByte('-')
			writeSetRune(&buf, r.Hi)
		}
	})
	buf.WriteByte(']')
	return buf.String()
}

func writeSetRune(buf *bytes.Buffer, r rune) {
	switch {
	case r == '\\' || r == ']' || r == '-' || r == '^':
		buf.WriteByte('\\')
		buf.WriteRune(r)
	case r >= 0x20 && r < 0x7f:
		buf.WriteRune(r)
	case r < 0x80:
		fmt.Fprintf(buf, "\\x%02x", r)
	case r < 0x10000:
		fmt.Fprintf(buf, "\\u%04x", r)
	default:
		fmt.Fprintf(buf, "\\U%08x", r)
	}
}
