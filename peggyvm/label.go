package peggyvm

import (
	"sort"
)

// Label is a named code address. Every rule gets a public label named
// after its key; the compiler's private labels start with a period.
type Label struct {
	Offset uint64
	Public bool
	Name   string
}

// sortLabels orders labels by offset. At equal offsets public labels come
// first, so a listing shows the rule name above any private label.
func sortLabels(labels []*Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		a, b := labels[i], labels[j]
		switch {
		case a.Offset != b.Offset:
			return a.Offset < b.Offset
		case a.Public != b.Public:
			return a.Public
		default:
			return a.Name < b.Name
		}
	})
}
