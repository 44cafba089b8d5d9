package charset

// Or returns a Matcher that matches iff any of the given Matchers match.
//
// • Match performance: moderate (limited by inner matchers)
//
// • Usefulness: situational
func Or(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return &mUnion{List: l}
}

type mUnion struct {
	List []Matcher
}

var _ Matcher = (*mUnion)(nil)

func (m *mUnion) Match(r rune) bool {
	for _, sub := range m.List {
		if sub.Match(r) {
			return true
		}
	}
	return false
}

func (m *mUnion) ForEachRange(f func(r Range)) {
	for _, r := range m.ranges() {
		f(r)
	}
}

func (m *mUnion) Optimize() Matcher {
	switch len(m.List) {
	case 0:
		return None()
	case 1:
		return m.List[0].Optimize()
	}
	return fromRanges(m.ranges())
}

func (m *mUnion) String() string {
	return genericString(m)
}

func (m *mUnion) ranges() []Range {
	var all []Range
	for _, sub := range m.List {
		all = append(all, collectRanges(sub)...)
	}
	return coalesceRanges(all)
}
