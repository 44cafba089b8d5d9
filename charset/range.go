package charset

import (
	"sort"
	"unicode"
)

// MaxRune is the largest rune any Matcher can match.
const MaxRune = unicode.MaxRune

// Range represents a range of consecutive runes.
//
// If Lo < Hi, then this Range represents the runes Lo, Lo+1, ..., Hi-1, Hi.
//
// If Lo == Hi, then this Range represents the single rune Lo.
//
// If Lo > Hi, then this Range represents the null set.
type Range struct {
	Lo rune
	Hi rune
}

// Ranges returns a Matcher that matches any rune that falls in one of the
// given Range entries.
//
// • Match performance: moderate
//
// • Usefulness: broad
//
// This is usually the best choice if most of the runes in your set are
// consecutive, and the number of such ranges is small.
func Ranges(rs ...Range) Matcher {
	return &mRange{Ranges: coalesceRanges(rs)}
}

type mRange struct {
	Ranges []Range
}

var _ Matcher = (*mRange)(nil)

func (m *mRange) Match(r rune) bool {
	i := sort.Search(len(m.Ranges), func(i int) bool {
		return m.Ranges[i].Hi >= r
	})
	if i >= len(m.Ranges) {
		return false
	}
	x := m.Ranges[i]
	return x.Lo <= r && r <= x.Hi
}

func (m *mRange) ForEachRange(f func(r Range)) {
	for _, r := range m.Ranges {
		f(r)
	}
}

func (m *mRange) Optimize() Matcher {
	return fromRanges(m.Ranges)
}

func (m *mRange) String() string {
	return genericString(m)
}

func (m *mRange) asDense() (Matcher, bool) {
	return denseFromRanges(m.Ranges)
}

func coalesceRanges(a []Range) []Range {
	// (*mRange).Match relies on the entries having Lo <= Hi, being
	// sorted by Lo, and not overlapping. Adjacent entries are merged too.

	b := make([]Range, 0, len(a))
	for _, r := range a {
		if r.Hi >= r.Lo {
			b = append(b, r)
		}
	}
	sort.Slice(b, func(i, j int) bool { return b[i].Lo < b[j].Lo })

	if len(b) < 2 {
		return b
	}

	c := make([]Range, 0, len(b))
	var lastHi rune
	var have bool
	for _, r := range b {
		if have && lastHi >= r.Hi {
			// fully covered
			continue
		} else if have && lastHi+1 >= r.Lo {
			// adjacent or overlapping
			c[len(c)-1].Hi = r.Hi
			lastHi = r.Hi
		} else {
			c = append(c, r)
			lastHi = r.Hi
			have = true
		}
	}
	return c
}

// complementRanges expects coalesced input.
func complementRanges(a []Range) []Range {
	out := make([]Range, 0, len(a)+1)
	next := rune(0)
	for _, r := range a {
		if r.Lo > next {
			out = append(out, Range{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= MaxRune {
		out = append(out, Range{next, MaxRune})
	}
	return out
}

// intersectRanges expects coalesced input.
func intersectRanges(a, b []Range) []Range {
	var out []Range
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := a[i].Lo
		if b[j].Lo > lo {
			lo = b[j].Lo
		}
		hi := a[i].Hi
		if b[j].Hi < hi {
			hi = b[j].Hi
		}
		if lo <= hi {
			out = append(out, Range{lo, hi})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else {
			j++
		}
	}
	return out
}
