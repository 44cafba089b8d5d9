package peggyvm

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/chronos-tachyon/peggy/token"
)

type RunState uint8

const (
	RunningState RunState = iota
	SuccessState
	FailureState
	ErrorState
)

var runStateNames = []string{"running", "success", "failure", "error"}

func (s RunState) String() string {
	if int(s) < len(runStateNames) {
		return runStateNames[s]
	}
	return fmt.Sprintf("RunState(%d)", uint8(s))
}

type memoKey struct {
	matcher int
	dp      int
}

type memoEntry struct {
	node *ParseNode
	ok   bool
}

// Execution is the context of a parse-in-progress. It is not safe for
// concurrent use, but any number of Executions may share one Program.
type Execution struct {
	// P is the program to run.
	P *Program

	// In is the input being parsed.
	In Input

	// DP (Data Pointer) is the index into In of the current rune or token.
	DP int

	// XP (eXecution Pointer) is the index into P.Ops of the Op to execute
	// *next*.
	XP uint64

	// CS is the current stack of CALL/RET and CHOICE/FAIL frames.
	//
	// - CALL pushes a CALL/RET frame and RET pops it, wrapping the nodes
	//   produced since the CALL into a single ParseNode.
	//
	// - CHOICE and PCHOICE push a CHOICE/FAIL frame; the COMMIT family
	//   pops it.
	//
	// - A failure pops CALL/RET frames until it finds a CHOICE/FAIL
	//   frame, then restores DP, NS and the ignore-errors flag from it.
	//   If no CHOICE/FAIL frame is pending, the parse fails.
	CS []Frame

	// NS is the stack of parse nodes built so far. It is truncated back
	// to the recorded length whenever a frame is restored.
	NS []*ParseNode

	// R is the current state of the execution.
	R RunState

	// Furthest is the largest DP at which a failure was recorded.
	Furthest int

	// IgnoreErrors is set inside predicates and token or trivia wrappers,
	// where failures do not move Furthest.
	IgnoreErrors bool

	// Err is the fatal error that put the execution in ErrorState.
	Err error

	runes  []rune
	tokens []*token.Token
	calls  []int
	memo   map[memoKey]memoEntry
}

func (x *Execution) popCS() (Frame, bool) {
	if len(x.CS) == 0 {
		return Frame{}, false
	}
	i := len(x.CS) - 1
	fr := x.CS[i]
	x.CS = x.CS[:i]
	return fr, true
}

func (x *Execution) popChoice() Frame {
	fr, ok := x.popCS()
	if !ok {
		panic(ErrEmptyStack)
	}
	if !fr.IsChoice {
		panic(ErrCallRetFrame)
	}
	return fr
}

func (x *Execution) record(dp int) {
	if dp > x.Furthest {
		x.Furthest = dp
	}
}

// fail records a primitive failure at DP, then backtracks.
func (x *Execution) fail() {
	if !x.IgnoreErrors {
		x.record(x.DP)
	}
	x.backtrack()
}

func (x *Execution) backtrack() {
	for {
		fr, ok := x.popCS()
		if !ok {
			x.R = FailureState
			x.NS = nil
			return
		}
		if fr.IsChoice {
			x.DP = fr.DP
			x.XP = fr.XP
			x.NS = x.NS[:fr.NK]
			x.IgnoreErrors = fr.IgnoreErrors
			return
		}

		m := fr.Matcher
		x.calls[m.ID] = fr.PrevCall
		x.IgnoreErrors = fr.IgnoreErrors
		if !fr.IgnoreErrors {
			x.record(fr.DP)
			if m.Memoize {
				x.memo[memoKey{m.ID, fr.DP}] = memoEntry{}
			}
		}
	}
}

// leaf pushes a terminal node spanning [DP, DP+n) and advances DP.
func (x *Execution) leaf(op *Op, imm uint64, n int) {
	assert(imm < uint64(len(x.P.Matchers)), "%s matcher index out of range", op.Meta().Name)
	x.NS = append(x.NS, &ParseNode{
		Matcher: x.P.Matchers[imm],
		Start:   x.DP,
		End:     x.DP + n,
	})
	x.DP += n
}

func (x *Execution) matchLiteral(lit string) (int, bool) {
	n := 0
	for _, r := range lit {
		i := x.DP + n
		if i >= len(x.runes) || x.runes[i] != r {
			return 0, false
		}
		n++
	}
	return n, true
}

// atEnd reports whether DP is at the end of the input. In token mode a
// trailing EOF token counts as the end.
func (x *Execution) atEnd() bool {
	n := x.In.Len()
	if x.DP == n {
		return true
	}
	return x.DP == n-1 && x.tokens != nil && x.tokens[n-1].IsEOF()
}

func (x *Execution) currentToken() *token.Token {
	if x.DP < len(x.tokens) {
		return x.tokens[x.DP]
	}
	return nil
}

func (x *Execution) currentRule() string {
	for i := len(x.CS) - 1; i >= 0; i-- {
		fr := &x.CS[i]
		if !fr.IsChoice && fr.Matcher != nil && fr.Matcher.Kind == RuleMatcher {
			return fr.Matcher.Name
		}
	}
	return ""
}

func (x *Execution) call(op *Op) error {
	assert(op.Imm1 < uint64(len(x.P.Matchers)), "CALL matcher index out of range")
	m := x.P.Matchers[op.Imm1]

	if m.Memoize {
		if entry, found := x.memo[memoKey{m.ID, x.DP}]; found {
			if !entry.ok {
				x.fail()
				return nil
			}
			x.NS = append(x.NS, entry.node)
			x.DP = entry.node.End
			return nil
		}
	}

	if x.calls[m.ID] == x.DP {
		return &GrammarError{Err: ErrLeftRecursion, Rule: m.Name, XP: op.XP, DP: x.DP}
	}

	x.CS = append(x.CS, Frame{
		IsChoice:     false,
		XP:           x.XP,
		DP:           x.DP,
		NK:           len(x.NS),
		IgnoreErrors: x.IgnoreErrors,
		Matcher:      m,
		PrevCall:     x.calls[m.ID],
	})
	x.calls[m.ID] = x.DP
	x.XP = addOffset(x.XP, u2s(op.Imm0))
	return nil
}

func (x *Execution) ret() {
	fr, ok := x.popCS()
	if !ok {
		panic(ErrEmptyStack)
	}
	if fr.IsChoice {
		panic(ErrChoiceFailFrame)
	}

	m := fr.Matcher
	children := make([]*ParseNode, len(x.NS)-fr.NK)
	copy(children, x.NS[fr.NK:])
	node := &ParseNode{
		Matcher:  m,
		Start:    fr.DP,
		End:      x.DP,
		Children: children,
	}
	x.NS = append(x.NS[:fr.NK], node)
	x.calls[m.ID] = fr.PrevCall
	x.IgnoreErrors = fr.IgnoreErrors
	if m.Memoize && !fr.IgnoreErrors {
		x.memo[memoKey{m.ID, fr.DP}] = memoEntry{node: node, ok: true}
	}
	x.XP = fr.XP
}

// Step executes a single instruction.
func (x *Execution) Step() (err error) {
	if x.R != RunningState {
		return ErrExecutionHalted
	}

	if x.XP >= uint64(len(x.P.Ops)) {
		x.R = ErrorState
		x.Err = &RuntimeError{Err: ErrIndexRange, XP: x.XP, DP: x.DP}
		return x.Err
	}

	op := &x.P.Ops[x.XP]
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			x.R = ErrorState
			x.Err = &RuntimeError{Err: cause, XP: op.XP, DP: x.DP, Op: op}
			err = x.Err
		}
	}()

	x.XP++
	switch op.Code {
	case OpNOP:
		// pass

	case OpCHOICE, OpPCHOICE:
		x.CS = append(x.CS, Frame{
			IsChoice:     true,
			XP:           addOffset(x.XP, u2s(op.Imm0)),
			DP:           x.DP,
			NK:           len(x.NS),
			IgnoreErrors: x.IgnoreErrors,
		})
		if op.Code == OpPCHOICE {
			x.IgnoreErrors = true
		}

	case OpCOMMIT:
		x.popChoice()
		x.XP = addOffset(x.XP, u2s(op.Imm0))

	case OpCOMMITV:
		fr := x.popChoice()
		if fr.DP == x.DP {
			x.R = ErrorState
			x.Err = &GrammarError{Err: ErrEmptyRepetition, Rule: x.currentRule(), XP: op.XP, DP: x.DP}
			return x.Err
		}
		x.XP = addOffset(x.XP, u2s(op.Imm0))

	case OpBCOMMIT:
		fr := x.popChoice()
		x.DP = fr.DP
		x.NS = x.NS[:fr.NK]
		x.IgnoreErrors = fr.IgnoreErrors
		x.XP = addOffset(x.XP, u2s(op.Imm0))

	case OpFAIL2X:
		fr := x.popChoice()
		x.DP = fr.DP
		x.NS = x.NS[:fr.NK]
		x.IgnoreErrors = fr.IgnoreErrors
		x.backtrack()

	case OpFAIL:
		x.fail()

	case OpJMP:
		x.XP = addOffset(x.XP, u2s(op.Imm0))

	case OpCALL:
		if err := x.call(op); err != nil {
			x.R = ErrorState
			x.Err = err
			return err
		}

	case OpIGNERR:
		x.IgnoreErrors = true

	case OpRET:
		x.ret()

	case OpEND:
		x.R = SuccessState

	case OpLIT:
		assert(op.Imm0 < uint64(len(x.P.Literals)), "LIT literal index out of range")
		if n, ok := x.matchLiteral(x.P.Literals[op.Imm0]); ok {
			x.leaf(op, op.Imm1, n)
		} else {
			x.fail()
		}

	case OpPAT:
		assert(op.Imm0 < uint64(len(x.P.Patterns)), "PAT pattern index out of range")
		pat := x.P.Patterns[op.Imm0]
		match, err := pat.Re.FindRunesMatchStartingAt(x.runes, x.DP)
		if err != nil {
			x.R = ErrorState
			x.Err = &GrammarError{Err: ErrPatternFailure, Rule: x.currentRule(), Pattern: pat.Source, XP: op.XP, DP: x.DP, Cause: err}
			return x.Err
		}
		if match != nil && match.Index == x.DP {
			x.leaf(op, op.Imm1, match.Length)
		} else {
			x.fail()
		}

	case OpCLASS:
		assert(op.Imm0 < uint64(len(x.P.CharSets)), "CLASS charset index out of range")
		if x.DP < len(x.runes) && x.P.CharSets[op.Imm0].Match(x.runes[x.DP]) {
			x.leaf(op, op.Imm1, 1)
		} else {
			x.fail()
		}

	case OpANY:
		if x.DP < len(x.runes) {
			x.leaf(op, op.Imm0, 1)
		} else {
			x.fail()
		}

	case OpEOI:
		if !x.atEnd() {
			x.fail()
		}

	case OpTVAL:
		assert(op.Imm0 < uint64(len(x.P.Literals)), "TVAL literal index out of range")
		if tok := x.currentToken(); tok != nil && tok.Value == x.P.Literals[op.Imm0] {
			x.leaf(op, op.Imm1, 1)
		} else {
			x.fail()
		}

	case OpTTYPE:
		assert(op.Imm0 < uint64(len(x.P.TokenTypes)), "TTYPE type index out of range")
		if tok := x.currentToken(); tok != nil && tok.Type == x.P.TokenTypes[op.Imm0] {
			x.leaf(op, op.Imm1, 1)
		} else {
			x.fail()
		}

	case OpTCLASS:
		assert(op.Imm0 < uint64(len(x.P.Classes)), "TCLASS class index out of range")
		if tok := x.currentToken(); tok != nil && reflect.TypeOf(tok.Type) == x.P.Classes[op.Imm0] {
			x.leaf(op, op.Imm1, 1)
		} else {
			x.fail()
		}

	case OpTTYPES:
		assert(op.Imm0 < uint64(len(x.P.TypeSets)), "TTYPES type set index out of range")
		if tok := x.currentToken(); tok != nil && containsType(x.P.TypeSets[op.Imm0], tok.Type) {
			x.leaf(op, op.Imm1, 1)
		} else {
			x.fail()
		}

	case OpTANY:
		if tok := x.currentToken(); tok != nil && tok.Type != token.EOF {
			x.leaf(op, op.Imm0, 1)
		} else {
			x.fail()
		}

	case OpADJ:
		if !x.adjacent() {
			x.fail()
		}

	case OpTILLNL:
		line := 1
		if x.DP > 0 {
			line = x.tokens[x.DP-1].Line
		}
		for {
			tok := x.currentToken()
			if tok == nil || tok.Line != line || tok.Type == token.EOF {
				break
			}
			x.leaf(op, op.Imm0, 1)
		}

	case OpBRIDGE:
		assert(op.Imm0 < uint64(len(x.P.TokenTypes)), "BRIDGE type index out of range")
		assert(op.Imm1 < uint64(len(x.P.TokenTypes)), "BRIDGE type index out of range")
		if n, ok := x.bridge(x.P.TokenTypes[op.Imm0], x.P.TokenTypes[op.Imm1]); ok {
			for i := 0; i < n; i++ {
				x.leaf(op, op.Imm2, 1)
			}
		} else {
			x.fail()
		}

	default:
		panic(ErrUnknownOpcode)
	}
	return nil
}

// adjacent reports whether the current token starts on the same line as
// the previous one, no later than the column right after it.
func (x *Execution) adjacent() bool {
	if x.DP == 0 || x.DP >= len(x.tokens) {
		return false
	}
	prev, next := x.tokens[x.DP-1], x.tokens[x.DP]
	return next.Line == prev.Line && next.Column <= prev.Column+utf8.RuneCountInString(prev.Value)
}

// bridge returns the number of tokens from the current from-token up to and
// including its balanced to-token.
func (x *Execution) bridge(from, to token.Type) (int, bool) {
	if x.DP >= len(x.tokens) || x.tokens[x.DP].Type != from {
		return 0, false
	}
	depth := 0
	for i := x.DP; i < len(x.tokens); i++ {
		switch x.tokens[i].Type {
		case from:
			depth++
		case to:
			depth--
		}
		if depth == 0 {
			return i + 1 - x.DP, true
		}
	}
	return 0, false
}

func containsType(set []token.Type, t token.Type) bool {
	for _, x := range set {
		if x == t {
			return true
		}
	}
	return false
}

// Run executes instructions until the parse succeeds, fails or hits a
// fatal error. Failure to match is not an error; check R.
func (x *Execution) Run() error {
	for x.R == RunningState {
		if err := x.Step(); err != nil {
			return err
		}
	}
	if x.R == ErrorState {
		return x.Err
	}
	return nil
}

// Result returns the root parse node, if the parse succeeded.
func (x *Execution) Result() (*ParseNode, bool) {
	if x.R != SuccessState || len(x.NS) == 0 {
		return nil, false
	}
	return x.NS[0], true
}
