package charset

// Exactly returns a Matcher that matches one specific rune.
//
// • Match performance: fast
//
// • Usefulness: situational
//
// This is the best choice if you want to match exactly one rune.
func Exactly(r rune) Matcher {
	return &mExact{Rune: r}
}

type mExact struct{ Rune rune }

var _ Matcher = (*mExact)(nil)

func (m *mExact) Match(r rune) bool {
	return r == m.Rune
}

func (m *mExact) ForEachRange(f func(r Range)) {
	f(Range{m.Rune, m.Rune})
}

func (m *mExact) Optimize() Matcher {
	return m
}

func (m *mExact) String() string {
	return genericString(m)
}

func (m *mExact) asDense() (Matcher, bool) {
	if m.Rune < 0 || m.Rune >= denseLimit {
		return nil, false
	}
	index, mask := denseIM(m.Rune)
	mm := &mDense{}
	mm.Set[index] = mask
	return mm, true
}
