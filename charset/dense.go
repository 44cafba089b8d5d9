package charset

const denseLimit = 256

// DenseSet returns a Matcher that matches any of the given runes, all of
// which must be below U+0100. Runes outside that range are ignored.
//
// • Match performance: fast
//
// • Usefulness: broad
//
// This is usually the best choice for Latin-1 sets without a clear pattern.
func DenseSet(given ...rune) Matcher {
	m := &mDense{}
	for _, r := range given {
		if r < 0 || r >= denseLimit {
			continue
		}
		index, mask := denseIM(r)
		m.Set[index] |= mask
	}
	return m
}

type mDense struct {
	Set [8]uint32
}

var _ Matcher = (*mDense)(nil)

func (m *mDense) Match(r rune) bool {
	if r < 0 || r >= denseLimit {
		return false
	}
	index, mask := denseIM(r)
	return (m.Set[index] & mask) == mask
}

func (m *mDense) ForEachRange(f func(r Range)) {
	var cur Range
	var have bool
	for x := rune(0); x < denseLimit; x++ {
		if !m.Match(x) {
			continue
		}
		if have && cur.Hi+1 == x {
			cur.Hi = x
			continue
		}
		if have {
			f(cur)
		}
		cur = Range{x, x}
		have = true
	}
	if have {
		f(cur)
	}
}

func (m *mDense) Optimize() Matcher {
	rs := collectRanges(m)
	if len(rs) == 0 {
		return None()
	}
	if len(rs) == 1 && rs[0].Lo == rs[0].Hi {
		return Exactly(rs[0].Lo)
	}
	return m
}

func (m *mDense) String() string {
	return genericString(m)
}

func denseIM(r rune) (index uint, mask uint32) {
	i := uint((r & 0xe0) >> 5)
	j := uint(r & 0x1f)
	mask = uint32(1) << j
	return i, mask
}

func denseFromRanges(rs []Range) (Matcher, bool) {
	mm := &mDense{}
	for _, r := range rs {
		if r.Lo < 0 || r.Hi >= denseLimit {
			return nil, false
		}
		for x := r.Lo; x <= r.Hi; x++ {
			index, mask := denseIM(x)
			mm.Set[index] |= mask
		}
	}
	return mm, true
}
