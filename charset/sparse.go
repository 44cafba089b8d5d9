package charset

import (
	"sort"
)

// SparseSet returns a Matcher that matches any of the given runes.
//
// • Match performance: fast
//
// • Usefulness: broad
//
// This is usually the best choice if your set is small-ish and is mostly made
// of non-consecutive runes, some of them outside Latin-1.
func SparseSet(given ...rune) Matcher {
	set := make(map[rune]struct{}, len(given))
	for _, r := range given {
		set[r] = struct{}{}
	}
	return &mSparse{Set: set}
}

type mSparse struct {
	Set map[rune]struct{}
}

var _ Matcher = (*mSparse)(nil)

func (m *mSparse) Match(r rune) bool {
	_, found := m.Set[r]
	return found
}

func (m *mSparse) ForEachRange(f func(r Range)) {
	sorted := make([]rune, 0, len(m.Set))
	for r := range m.Set {
		sorted = append(sorted, r)
	}
	sort.Sort(runeSlice(sorted))
	rs := make([]Range, len(sorted))
	for i, r := range sorted {
		rs[i] = Range{r, r}
	}
	for _, r := range coalesceRanges(rs) {
		f(r)
	}
}

func (m *mSparse) Optimize() Matcher {
	switch len(m.Set) {
	case 0:
		return None()
	case 1:
		for r := range m.Set {
			return Exactly(r)
		}
	}
	if md, ok := m.asDense(); ok {
		return md
	}
	return m
}

func (m *mSparse) String() string {
	return genericString(m)
}

func (m *mSparse) asDense() (Matcher, bool) {
	mm := &mDense{}
	for r := range m.Set {
		if r < 0 || r >= denseLimit {
			return nil, false
		}
		index, mask := denseIM(r)
		mm.Set[index] |= mask
	}
	return mm, true
}
