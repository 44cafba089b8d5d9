package peggyvm

// Frame is a single frame on the call stack.
type Frame struct {
	// IsChoice is true iff this is a CHOICE/FAIL frame, or false iff this
	// is a CALL/RET frame.
	IsChoice bool

	// XP is the alternative to resume at (CHOICE/FAIL) or the return
	// address (CALL/RET).
	XP uint64

	// DP is the input position when the frame was pushed.
	DP int

	// NK is the length of the node stack when the frame was pushed.
	NK int

	// IgnoreErrors is the ignore-errors flag to restore when the frame is
	// popped.
	IgnoreErrors bool

	// Matcher is the rule or wrapper being called.
	// (This field is only meaningful for CALL/RET frames.)
	Matcher *Matcher

	// PrevCall is the left-recursion mark of Matcher to restore on return.
	// (This field is only meaningful for CALL/RET frames.)
	PrevCall int
}
