package charset

// None returns a Matcher that never matches any rune.
//
// • Match performance: fast
//
// • Usefulness: situational
func None() Matcher { return singletonNone }

type mNone struct{}

var _ Matcher = (*mNone)(nil)
var singletonNone = &mNone{}

func (m *mNone) Match(r rune) bool            { return false }
func (m *mNone) ForEachRange(f func(r Range)) {}
func (m *mNone) Optimize() Matcher            { return singletonNone }
func (m *mNone) String() string               { return "!." }
