package charset

// All returns a Matcher that matches every rune.
//
// • Match performance: fast
//
// • Usefulness: situational
func All() Matcher { return singletonAll }

type mAll struct{}

var _ Matcher = (*mAll)(nil)
var singletonAll = &mAll{}

func (m *mAll) Match(r rune) bool            { return true }
func (m *mAll) ForEachRange(f func(r Range)) { f(Range{0, MaxRune}) }
func (m *mAll) Optimize() Matcher            { return singletonAll }
func (m *mAll) String() string               { return "." }
