package charset

// And returns a Matcher that matches iff all of the given Matchers match.
//
// • Match performance: moderate (limited by inner matchers)
//
// • Usefulness: situational
func And(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return &mIntersection{List: l}
}

type mIntersection struct {
	List []Matcher
}

var _ Matcher = (*mIntersection)(nil)

func (m *mIntersection) Match(r rune) bool {
	for _, sub := range m.List {
		if !sub.Match(r) {
			return false
		}
	}
	return true
}

func (m *mIntersection) ForEachRange(f func(r Range)) {
	for _, r := range m.ranges() {
		f(r)
	}
}

func (m *mIntersection) Optimize() Matcher {
	switch len(m.List) {
	case 0:
		return All()
	case 1:
		return m.List[0].Optimize()
	}
	return fromRanges(m.ranges())
}

func (m *mIntersection) String() string {
	return genericString(m)
}

func (m *mIntersection) ranges() []Range {
	acc := []Range{{0, MaxRune}}
	for _, sub := range m.List {
		acc = intersectRanges(acc, collectRanges(sub))
	}
	return acc
}
