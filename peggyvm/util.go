package peggyvm

import (
	"fmt"
)

// assert panics with an error if cond is false. Step recovers the panic and
// reports it as a RuntimeError.
func assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	panic(fmt.Errorf("assertion failed: "+format, args...))
}

// s2u stores a code offset in an immediate slot.
func s2u(v int64) uint64 {
	return uint64(v)
}

// u2s reads a code offset back out of an immediate slot.
func u2s(v uint64) int64 {
	return int64(v)
}

// addOffset returns xp + s, panicking with ErrIndexRange if the result
// would leave the address space.
func addOffset(xp uint64, s int64) uint64 {
	if s < 0 {
		d := uint64(-s)
		if d > xp {
			panic(ErrIndexRange)
		}
		return xp - d
	}
	if uint64(s) > allbits-xp {
		panic(ErrIndexRange)
	}
	return xp + uint64(s)
}
