// Package charset provides predicates over runes, used by character-class
// parsing expressions.
package charset

// Matcher is a predicate that returns true for certain runes.
//
// Implementations of Matcher must *not* change their state on a call to
// Match, since a single Matcher is shared by every parse of a grammar.
type Matcher interface {
	// Match returns true iff rune r is in the set.
	Match(r rune) bool

	// ForEachRange calls f exactly once for each maximal run of consecutive
	// runes in the set. Successive calls are in ascending order.
	ForEachRange(f func(r Range))

	// Optimize returns a Matcher that matches the same set of runes, but
	// possibly in a more efficient way. If no better implementation can be
	// found, returns this matcher.
	Optimize() Matcher

	// String returns a string representation of the set.
	String() string
}

type asDenser interface {
	asDense() (Matcher, bool)
}

// Runes appends each rune matched by m to out, then returns the updated
// slice. Don't call this on a set containing huge ranges.
func Runes(m Matcher, out []rune) []rune {
	m.ForEachRange(func(r Range) {
		for x := r.Lo; x <= r.Hi; x++ {
			out = append(out, x)
		}
	})
	return out
}

// Equal reports whether a and b match exactly the same runes.
func Equal(a, b Matcher) bool {
	ra, rb := collectRanges(a), collectRanges(b)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

func asDense(m Matcher) (Matcher, bool) {
	if md, ok := m.(*mDense); ok {
		return md, true
	}
	if mx, ok := m.(asDenser); ok {
		return mx.asDense()
	}
	return denseFromRanges(collectRanges(m))
}

// fromRanges picks the cheapest representation for an already-coalesced
// range list.
func fromRanges(rs []Range) Matcher {
	switch {
	case len(rs) == 0:
		return None()
	case len(rs) == 1 && rs[0].Lo == 0 && rs[0].Hi == MaxRune:
		return All()
	case len(rs) == 1 && rs[0].Lo == rs[0].Hi:
		return Exactly(rs[0].Lo)
	}
	if md, ok := denseFromRanges(rs); ok {
		return md
	}
	return &mRange{Ranges: rs}
}
