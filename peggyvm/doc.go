// Package peggyvm implements a virtual machine for Parsing Expression Grammars.
//
// A Program is a flat list of fixed-width instructions. Each instruction has
// an opcode and up to three immediates; code offsets are signed and relative
// to the instruction that follows. Every other immediate is an index into
// one of the Program's tables (Literals, Patterns, CharSets, TokenTypes,
// Classes, TypeSets, Matchers).
//
// Address 0 always holds END. Execution starts with a CALL/RET frame for
// the start rule whose return address is 0, so returning from the start rule
// ends the parse successfully.
//
// The VM keeps two stacks:
//
// • CS, the stack of CHOICE/FAIL and CALL/RET frames
//
// • NS, the stack of parse nodes built so far
//
// Every frame records the data position, the height of NS and the
// ignore-errors flag at the moment it was pushed. Failures rewind all three.
//
// Primitive instructions that consume input push one terminal ParseNode per
// match. The Matcher that describes the terminal is a hidden immediate: it is
// not shown in disassembly listings.
//
// The opcodes are organized in the following fashion:
//
//	+------+---------+---------+---------+---------+
//	|      | 00      | 01      | 10      | 11      |
//	+------+---------+---------+---------+---------+
//	| 0000 | NOP     | CHOICE  | PCHOICE | COMMIT  |
//	| 0001 | COMMITV | BCOMMIT | FAIL2X  | FAIL    |
//	| 0010 | JMP     | CALL    | IGNERR  | RET     |
//	| 0011 | LIT     | PAT     | CLASS   | ANY     |
//	| 0100 | EOI     | TVAL    | TTYPE   | TCLASS  |
//	| 0101 | TTYPES  | TANY    | ADJ     | TILLNL  |
//	| 0110 | BRIDGE  | END     | -       | -       |
//	+------+---------+---------+---------+---------+
//
// The actual opcodes now follow, with their behaviors explained both with
// prose and with Go-like pseudocode.
//
// • NOP (0x00)
//
//	NOP
//
// Short for "No Operation". Does nothing but take up space.
//
// • CHOICE (0x01)
//
//	CHOICE imm0
//	imm0: required ImmCodeOffset (signed)
//
//	exec.CS.push({
//	  IsChoice:     true,
//	  DP:           exec.DP,
//	  XP:           exec.XP + imm0,
//	  NK:           len(exec.NS),
//	  IgnoreErrors: exec.IgnoreErrors,
//	})
//
// Sets up an alternative parse: if the current parse fails, the parse state
// will be rewound and execution will transfer to imm0.
//
// • PCHOICE (0x02)
//
//	PCHOICE imm0
//	imm0: required ImmCodeOffset (signed)
//
//	CHOICE(imm0)
//	exec.IgnoreErrors = true
//
// Like CHOICE, but failures until the frame is popped are not recorded as
// the furthest failure. Used to open lookahead predicates.
//
// • COMMIT (0x03)
//
//	COMMIT imm0
//	imm0: required ImmCodeOffset (signed)
//
//	frame := exec.CS.pop()
//	assert(frame.IsChoice)
//	exec.XP += imm0
//
// Commits to the current parse & jumps to imm0.
//
// • COMMITV (0x04)
//
//	COMMITV imm0
//	imm0: required ImmCodeOffset (signed)
//
//	frame := exec.CS.pop()
//	assert(frame.IsChoice)
//	if frame.DP == exec.DP {
//	  raise(ErrEmptyRepetition)
//	}
//	exec.XP += imm0
//
// Like COMMIT, but the body of the loop it closes must have consumed input.
// A body that matched the empty string would loop forever, so this is a
// fatal GrammarError.
//
// • BCOMMIT (0x05)
//
//	BCOMMIT imm0
//	imm0: required ImmCodeOffset (signed)
//
//	frame := exec.CS.pop()
//	assert(frame.IsChoice)
//	exec.DP = frame.DP
//	exec.NS = exec.NS[:frame.NK]
//	exec.IgnoreErrors = frame.IgnoreErrors
//	exec.XP += imm0  // ignore frame.XP
//
// Backtracks the data stream and node stack (like a FAIL), but jumps to
// BCOMMIT's imm0 (not the CHOICE's imm0).
//
// Used to implement positive lookahead assertions.
//
// • FAIL2X (0x06)
//
//	FAIL2X
//
//	frame := exec.CS.pop()
//	assert(frame.IsChoice)
//	exec.DP = frame.DP
//	exec.IgnoreErrors = frame.IgnoreErrors
//	backtrack()
//
// Fails the match twice, without recording a failure position.
//
// Used to implement negative lookahead assertions.
//
// • FAIL (0x07)
//
//	FAIL
//
//	func backtrack() {
//	  for !exec.CS.isEmpty() {
//	    frame := exec.CS.pop()
//	    if frame.IsChoice {
//	      exec.DP = frame.DP
//	      exec.XP = frame.XP
//	      exec.NS = exec.NS[:frame.NK]
//	      exec.IgnoreErrors = frame.IgnoreErrors
//	      return
//	    }
//	    unmark(frame.Matcher)
//	    exec.IgnoreErrors = frame.IgnoreErrors
//	    if !frame.IgnoreErrors {
//	      record(frame.DP)
//	      memoizeFailure(frame.Matcher, frame.DP)
//	    }
//	  }
//	  exec.R = FailureState
//	}
//
//	if !exec.IgnoreErrors {
//	  record(exec.DP)
//	}
//	backtrack()
//
// Fails the match, backtracking to the saved state of the last CHOICE. Every
// primitive below fails the same way.
//
// • JMP (0x08)
//
//	JMP imm0
//	imm0: required ImmCodeOffset (signed)
//
//	exec.XP += imm0
//
// Unconditionally jumps to imm0.
//
// • CALL (0x09)
//
//	CALL imm0, imm1
//	imm0: required ImmCodeOffset (signed)
//	imm1: hidden ImmMatcherIdx
//
//	m := exec.P.Matchers[imm1]
//	if node, found := memo(m, exec.DP); found {
//	  push node or fail()
//	  return
//	}
//	if isMarked(m, exec.DP) {
//	  raise(ErrLeftRecursion)
//	}
//	exec.CS.push({
//	  IsChoice:     false,
//	  DP:           exec.DP,
//	  XP:           exec.XP,
//	  NK:           len(exec.NS),
//	  IgnoreErrors: exec.IgnoreErrors,
//	  Matcher:      m,
//	})
//	mark(m, exec.DP)
//	exec.XP += imm0
//
// Sets up a CALL/RET frame & jumps to imm0. Rules, token wrappers and trivia
// wrappers are all CALLed. Calling a matcher that is already active at the
// same position is left recursion.
//
// • IGNERR (0x0a)
//
//	IGNERR
//
//	exec.IgnoreErrors = true
//
// Stops recording failures until the enclosing frame is popped.
//
// • RET (0x0b)
//
//	RET
//
//	frame := exec.CS.pop()
//	assert(!frame.IsChoice)
//	node := ParseNode{frame.Matcher, frame.DP, exec.DP, exec.NS[frame.NK:]}
//	exec.NS = append(exec.NS[:frame.NK], node)
//	unmark(frame.Matcher)
//	exec.IgnoreErrors = frame.IgnoreErrors
//	exec.XP = frame.XP
//
// Pops a CALL/RET frame, wrapping the nodes produced since the CALL into a
// single node, and jumps back to the instruction that directly followed the
// invoking CALL.
//
// • LIT (0x0c)
//
//	LIT imm0, imm1
//	imm0: required ImmLiteralIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches the runes of the literal with index imm0.
//
// • PAT (0x0d)
//
//	PAT imm0, imm1
//	imm0: required ImmPatternIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches the regular expression with index imm0, anchored at exec.DP. A
// match error (usually a timeout) raises ErrPatternFailure.
//
// • CLASS (0x0e)
//
//	CLASS imm0, imm1
//	imm0: required ImmCharSetIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches one rune that belongs to the charset.Matcher with index imm0.
//
// • ANY (0x0f)
//
//	ANY imm0
//	imm0: hidden ImmMatcherIdx
//
// Matches any one rune. Fails at the end of the input.
//
// • EOI (0x10)
//
//	EOI
//
// Succeeds without consuming input iff exec.DP is at the end of the input.
// In token mode, a position just before a trailing EOF token is the end.
//
// • TVAL (0x11)
//
//	TVAL imm0, imm1
//	imm0: required ImmLiteralIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches one token whose Value equals the literal with index imm0.
//
// • TTYPE (0x12)
//
//	TTYPE imm0, imm1
//	imm0: required ImmTypeIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches one token whose Type equals the token type with index imm0.
//
// • TCLASS (0x13)
//
//	TCLASS imm0, imm1
//	imm0: required ImmClassIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches one token whose Type has the Go type with index imm0.
//
// • TTYPES (0x14)
//
//	TTYPES imm0, imm1
//	imm0: required ImmTypeSetIdx
//	imm1: hidden ImmMatcherIdx
//
// Matches one token whose Type is a member of the type set with index imm0.
//
// • TANY (0x15)
//
//	TANY imm0
//	imm0: hidden ImmMatcherIdx
//
// Matches any one token except EOF.
//
// • ADJ (0x16)
//
//	ADJ
//
//	prev := exec.I[exec.DP-1]
//	next := exec.I[exec.DP]
//	good := next.Line == prev.Line &&
//	  next.Column <= prev.Column + runeCount(prev.Value)
//
// Succeeds without consuming input iff the next token directly follows the
// previous one. Fails at the start of the input.
//
// • TILLNL (0x17)
//
//	TILLNL imm0
//	imm0: hidden ImmMatcherIdx
//
// Consumes every token on the line of the previous token (line 1 at the
// start of the input), stopping at EOF. Always succeeds.
//
// • BRIDGE (0x18)
//
//	BRIDGE imm0, imm1, imm2
//	imm0: required ImmTypeIdx
//	imm1: required ImmTypeIdx
//	imm2: hidden ImmMatcherIdx
//
// Matches a token of type imm0 and every token up to and including the
// token of type imm1 that balances it. Nested imm0/imm1 pairs are counted.
// Fails if the current token is not of type imm0 or if it is never balanced.
//
// • END (0x19)
//
//	END
//
// Unconditionally succeeds at the outermost match, ignoring the stack.
package peggyvm
