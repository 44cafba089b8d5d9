package peggyvm

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"

	"github.com/dlclark/regexp2"

	"github.com/chronos-tachyon/peggy/charset"
	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/token"
)

// Pattern is a compiled regular expression terminal.
type Pattern struct {
	Source string
	Re     *regexp2.Regexp
}

// Program is a grammar that has been compiled to instructions. A Program is
// immutable and may be executed by any number of goroutines at once.
type Program struct {
	// Mode is the mode of the source grammar.
	Mode grammar.Mode

	// Root is the key of the source grammar's root rule.
	Root expr.RuleKey

	// Ops is the code to execute. Ops[0] is always END.
	Ops []Op

	// Literals is referenced by the LIT and TVAL instructions.
	Literals []string

	// Patterns is referenced by the PAT instruction.
	Patterns []*Pattern

	// CharSets is referenced by the CLASS instruction.
	CharSets []charset.Matcher

	// TokenTypes is referenced by the TTYPE and BRIDGE instructions.
	TokenTypes []token.Type

	// Classes is referenced by the TCLASS instruction.
	Classes []reflect.Type

	// TypeSets is referenced by the TTYPES instruction.
	TypeSets [][]token.Type

	// Matchers lists the origins of parse nodes: one per rule, followed by
	// one per token or trivia wrapper and one per terminal.
	Matchers []*Matcher

	// RuleMatchers is an index from rule key to Matcher.
	RuleMatchers map[expr.RuleKey]*Matcher

	// RuleEntry is an index from rule key to the rule's code address.
	RuleEntry map[expr.RuleKey]uint64

	// Labels is an auxiliary list of program labels, sorted by offset.
	Labels []*Label

	// LabelsByName is an index from Label.Name to Label.
	LabelsByName map[string]*Label
}

// FindLabel returns the best available label for the given code address. If no
// labels are defined for that code address, then a synthetic local label is
// returned.
func (p *Program) FindLabel(xp uint64) *Label {
	i := sort.Search(len(p.Labels), func(i int) bool {
		return p.Labels[i].Offset >= xp
	})
	if i < len(p.Labels) && p.Labels[i].Offset == xp {
		return p.Labels[i]
	}
	return &Label{
		Offset: xp,
		Public: false,
		Name:   fmt.Sprintf(".ANON@%x", xp),
	}
}

// Disassemble converts the program into an assembly listing, writing the
// result to the provided writer.
func (p *Program) Disassemble(w io.Writer) (int, error) {
	var buf bytes.Buffer
	var total int

	flush := func() error {
		n, err := w.Write(buf.Bytes())
		total += n
		buf.Reset()
		return err
	}

	for _, literal := range p.Literals {
		fmt.Fprintf(&buf, "%%literal %q\n", literal)
	}
	for _, pattern := range p.Patterns {
		fmt.Fprintf(&buf, "%%pattern %q\n", pattern.Source)
	}
	for _, set := range p.CharSets {
		fmt.Fprintf(&buf, "%%charset %s\n", set)
	}
	for _, t := range p.TokenTypes {
		fmt.Fprintf(&buf, "%%tokentype %s\n", t.Name())
	}
	for _, class := range p.Classes {
		fmt.Fprintf(&buf, "%%class %s\n", class)
	}
	for _, set := range p.TypeSets {
		buf.WriteString("%typeset")
		for i, t := range set {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte(' ')
			buf.WriteString(t.Name())
		}
		buf.WriteByte('\n')
	}
	if p.Root != nil {
		fmt.Fprintf(&buf, "%%root %s\n", p.Root)
	}
	buf.WriteByte('\n')
	if err := flush(); err != nil {
		return total, err
	}

	// First pass: identify code offsets that need labels
	labelNeeded := make(map[uint64]struct{})
	for _, label := range p.Labels {
		if label.Public {
			labelNeeded[label.Offset] = struct{}{}
		}
	}
	for i := range p.Ops {
		op := &p.Ops[i]
		meta := op.Meta()
		next := uint64(i) + 1
		for _, row := range []struct {
			m ImmMeta
			v uint64
		}{{meta.Imm0, op.Imm0}, {meta.Imm1, op.Imm1}, {meta.Imm2, op.Imm2}} {
			if row.m.Type == ImmCodeOffset {
				labelNeeded[addOffset(next, u2s(row.v))] = struct{}{}
			}
		}
	}

	// Second pass: generate actual disassembly listing
	for i := range p.Ops {
		op := &p.Ops[i]
		xp := uint64(i)
		if _, yes := labelNeeded[xp]; yes {
			buf.WriteString(p.FindLabel(xp).Name)
			buf.WriteByte(':')
			buf.WriteByte('\n')
		}
		buf.WriteByte('\t')
		p.writeOp(&buf, op, xp+1)
		buf.WriteByte('\n')
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (p *Program) writeOp(buf *bytes.Buffer, op *Op, xp uint64) {
	meta := op.Meta()

	first := true
	f := func(m ImmMeta, v uint64) {
		if !m.IsPresent() || m.Hidden {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		buf.WriteByte(' ')
		first = false
		switch m.Type {
		case ImmCodeOffset:
			s := u2s(v)
			label := p.FindLabel(addOffset(xp, s))
			fmt.Fprintf(buf, "%s <.%+d>", label.Name, s)

		case ImmLiteralIdx:
			if v < uint64(len(p.Literals)) {
				buf.WriteString(strconv.Quote(p.Literals[v]))
			} else {
				fmt.Fprintf(buf, "%d <bad-literal>", v)
			}

		case ImmPatternIdx:
			if v < uint64(len(p.Patterns)) {
				buf.WriteString(strconv.Quote(p.Patterns[v].Source))
			} else {
				fmt.Fprintf(buf, "%d <bad-pattern>", v)
			}

		case ImmCharSetIdx:
			if v < uint64(len(p.CharSets)) {
				buf.WriteString(p.CharSets[v].String())
			} else {
				fmt.Fprintf(buf, "%d <bad-charset>", v)
			}

		case ImmTypeIdx:
			if v < uint64(len(p.TokenTypes)) {
				buf.WriteString(p.TokenTypes[v].Name())
			} else {
				fmt.Fprintf(buf, "%d <bad-tokentype>", v)
			}

		case ImmClassIdx:
			if v < uint64(len(p.Classes)) {
				buf.WriteString(p.Classes[v].String())
			} else {
				fmt.Fprintf(buf, "%d <bad-class>", v)
			}

		case ImmTypeSetIdx:
			if v < uint64(len(p.TypeSets)) {
				for i, t := range p.TypeSets[v] {
					if i > 0 {
						buf.WriteByte('|')
					}
					buf.WriteString(t.Name())
				}
			} else {
				fmt.Fprintf(buf, "%d <bad-typeset>", v)
			}

		case ImmMatcherIdx:
			fmt.Fprintf(buf, "%d", v)
			if v >= uint64(len(p.Matchers)) {
				buf.WriteString(" <bad-matcher>")
			}

		default:
			fmt.Fprintf(buf, "%d", v)
		}
	}

	buf.WriteString(meta.Name)
	f(meta.Imm0, op.Imm0)
	f(meta.Imm1, op.Imm1)
	f(meta.Imm2, op.Imm2)
}

// String returns the disassembly listing.
func (p *Program) String() string {
	var buf bytes.Buffer
	p.Disassemble(&buf)
	return buf.String()
}

// Exec prepares an Execution that parses in starting from the rule named by
// key. A nil key selects the root rule.
func (p *Program) Exec(in Input, key expr.RuleKey) (*Execution, error) {
	if key == nil {
		key = p.Root
	}
	entry, found := p.RuleEntry[key]
	if !found {
		return nil, &RuntimeError{Err: ErrUnknownRule}
	}
	if in.mode() != p.Mode {
		return nil, &RuntimeError{Err: ErrInputMode}
	}

	calls := make([]int, len(p.Matchers))
	for i := range calls {
		calls[i] = -1
	}

	x := &Execution{
		P:     p,
		In:    in,
		XP:    entry,
		CS:    make([]Frame, 0, 16),
		NS:    make([]*ParseNode, 0, 16),
		calls: calls,
		memo:  make(map[memoKey]memoEntry),
	}
	switch v := in.(type) {
	case RuneInput:
		x.runes = v
	case TokenInput:
		x.tokens = v
	}

	// The start rule returns to the END at address 0. It is not marked as
	// active: a left-recursive cycle through it is reported at the first
	// rule re-entered inside the cycle.
	x.CS = append(x.CS, Frame{
		XP:       0,
		Matcher:  p.RuleMatchers[key],
		PrevCall: -1,
	})
	return x, nil
}
