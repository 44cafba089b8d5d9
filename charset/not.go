package charset

// Not returns a Matcher that inverts the given Matcher.
//
// • Match performance: fast (limited by inner matcher)
//
// • Usefulness: situational
func Not(m Matcher) Matcher {
	return &mNegation{Inner: m}
}

type mNegation struct {
	Inner Matcher
}

var _ Matcher = (*mNegation)(nil)

func (m *mNegation) Match(r rune) bool {
	return !m.Inner.Match(r)
}

func (m *mNegation) ForEachRange(f func(r Range)) {
	for _, r := range complementRanges(collectRanges(m.Inner)) {
		f(r)
	}
}

func (m *mNegation) Optimize() Matcher {
	inner := m.Inner.Optimize()
	switch sub := inner.(type) {
	case *mAll:
		return None()
	case *mNone:
		return All()
	case *mNegation:
		return sub.Inner
	default:
		return &mNegation{Inner: inner}
	}
}

func (m *mNegation) String() string {
	return "!" + m.Inner.String()
}
