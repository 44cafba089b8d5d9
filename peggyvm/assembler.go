package peggyvm

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/chronos-tachyon/peggy/charset"
	"github.com/chronos-tachyon/peggy/expr"
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/token"
)

// Assembler collects labels, instructions and constant tables, and links
// them into a Program.
//
// Every instruction occupies exactly one code address, so the address of a
// label is known as soon as it is emitted; forward references are patched
// by Finish.
type Assembler struct {
	// List holds labels and instructions in emission order.
	List         []*AsmItem
	LabelsByName map[string]*AsmItem

	// NumOps is the number of instructions emitted so far.
	NumOps uint64

	// Literals through Matchers hold the future Program tables.
	Literals   []string
	Patterns   []*Pattern
	CharSets   []charset.Matcher
	TokenTypes []token.Type
	Classes    []reflect.Type
	TypeSets   [][]token.Type
	Matchers   []*Matcher

	literalIdx map[string]uint64
	typeIdx    map[token.Type]uint64
	classIdx   map[reflect.Type]uint64
}

type AsmItem struct {
	// Index is the position of the item in Assembler.List.
	Index uint

	// IsOp distinguishes instructions from labels.
	IsOp bool

	// XP is the code address of this label or instruction.
	XP uint64

	// Label fields.
	Name   string
	Public bool
	Seen   bool

	// Instruction fields.
	Meta *OpMeta
	Imm0 uint64
	Imm1 uint64
	Imm2 uint64

	// Fixup is the immediate slot that Finish patches with the relative
	// address of the label FixBlockedBy.
	Fixup        *uint64
	FixBlockedBy *AsmItem
}

func NewAssembler() *Assembler {
	return &Assembler{
		LabelsByName: make(map[string]*AsmItem),
		literalIdx:   make(map[string]uint64),
		typeIdx:      make(map[token.Type]uint64),
		classIdx:     make(map[reflect.Type]uint64),
	}
}

func (a *Assembler) DeclareLiteral(lit string) uint64 {
	if idx, found := a.literalIdx[lit]; found {
		return idx
	}
	idx := uint64(len(a.Literals))
	a.Literals = append(a.Literals, lit)
	a.literalIdx[lit] = idx
	return idx
}

func (a *Assembler) DeclarePattern(p *Pattern) uint64 {
	a.Patterns = append(a.Patterns, p)
	return uint64(len(a.Patterns) - 1)
}

func (a *Assembler) DeclareCharSet(set charset.Matcher) uint64 {
	a.CharSets = append(a.CharSets, set)
	return uint64(len(a.CharSets) - 1)
}

func (a *Assembler) DeclareTokenType(t token.Type) uint64 {
	if idx, found := a.typeIdx[t]; found {
		return idx
	}
	idx := uint64(len(a.TokenTypes))
	a.TokenTypes = append(a.TokenTypes, t)
	a.typeIdx[t] = idx
	return idx
}

func (a *Assembler) DeclareClass(class reflect.Type) uint64 {
	if idx, found := a.classIdx[class]; found {
		return idx
	}
	idx := uint64(len(a.Classes))
	a.Classes = append(a.Classes, class)
	a.classIdx[class] = idx
	return idx
}

func (a *Assembler) DeclareTypeSet(set []token.Type) uint64 {
	a.TypeSets = append(a.TypeSets, set)
	return uint64(len(a.TypeSets) - 1)
}

// DeclareMatcher assigns m its ID and appends it to the matcher table.
func (a *Assembler) DeclareMatcher(m *Matcher) uint64 {
	m.ID = len(a.Matchers)
	a.Matchers = append(a.Matchers, m)
	return uint64(m.ID)
}

func (a *Assembler) GrabLabel(name string) *AsmItem {
	item := a.LabelsByName[name]
	if item != nil {
		return item
	}
	assert(len(name) != 0, "empty label name")
	item = &AsmItem{
		Index:  ^uint(0),
		IsOp:   false,
		Name:   name,
		Public: name[0] != '.',
	}
	a.LabelsByName[name] = item
	return item
}

func (a *Assembler) EmitLabel(name string) {
	item := a.GrabLabel(name)
	assert(!item.Seen, "label %s emitted twice", name)
	item.Seen = true
	item.XP = a.NumOps
	a.link(item)
}

func (a *Assembler) EmitOp(meta *OpMeta, imm0, imm1, imm2 interface{}) {
	item := &AsmItem{
		Index: ^uint(0),
		IsOp:  true,
		XP:    a.NumOps,
		Meta:  meta,
		Name:  meta.Name,
	}

	type tuple struct {
		Meta  *ImmMeta
		Value interface{}
		Ptr   *uint64
	}

	tuples := []tuple{
		tuple{&meta.Imm0, imm0, &item.Imm0},
		tuple{&meta.Imm1, imm1, &item.Imm1},
		tuple{&meta.Imm2, imm2, &item.Imm2},
	}

	for _, row := range tuples {
		t := row.Meta.Type
		switch x := row.Value.(type) {
		case nil:
			assert(t == ImmNone, "nil for %s immediate", meta.Name)

		case int:
			assert(t != ImmNone, "value for absent immediate")
			if t.Signed() {
				*row.Ptr = s2u(int64(x))
			} else {
				assert(x >= 0, "negative value for unsigned immediate")
				*row.Ptr = uint64(x)
			}

		case uint64:
			assert(t != ImmNone, "value for absent immediate")
			assert(!t.Signed(), "%T for signed immediate", x)
			*row.Ptr = x

		case *AsmItem:
			assert(t == ImmCodeOffset, "not a code offset")
			assert(!x.IsOp, "not a label")
			assert(item.Fixup == nil, "multiple fixups for one op")
			item.Fixup = row.Ptr
			item.FixBlockedBy = x

		default:
			panic(fmt.Errorf("illegal type %T", x))
		}
	}

	a.link(item)
	a.NumOps++
}

// Finish patches every label reference and returns the Program.
func (a *Assembler) Finish() (*Program, error) {
	p := &Program{
		Ops:          make([]Op, 0, a.NumOps),
		Literals:     a.Literals,
		Patterns:     a.Patterns,
		CharSets:     a.CharSets,
		TokenTypes:   a.TokenTypes,
		Classes:      a.Classes,
		TypeSets:     a.TypeSets,
		Matchers:     a.Matchers,
		RuleMatchers: make(map[expr.RuleKey]*Matcher),
		RuleEntry:    make(map[expr.RuleKey]uint64),
		LabelsByName: make(map[string]*Label),
	}

	for _, item := range a.List {
		if !item.IsOp {
			label := &Label{
				Name:   item.Name,
				Public: item.Public,
				Offset: item.XP,
			}
			p.Labels = append(p.Labels, label)
			p.LabelsByName[label.Name] = label
			continue
		}
		if target := item.FixBlockedBy; target != nil {
			if !target.Seen {
				return nil, &AssembleError{Err: ErrUndefinedLabel, Label: target.Name}
			}
			*item.Fixup = s2u(int64(target.XP) - int64(item.XP+1))
		}
		p.Ops = append(p.Ops, Op{
			XP:   item.XP,
			Code: item.Meta.Code,
			Imm0: item.Imm0,
			Imm1: item.Imm1,
			Imm2: item.Imm2,
		})
	}
	sortLabels(p.Labels)

	for _, m := range a.Matchers {
		if m.Kind == RuleMatcher {
			p.RuleMatchers[m.Key] = m
		}
	}
	return p, nil
}

func (a *Assembler) String() string {
	var buf bytes.Buffer
	for _, item := range a.List {
		buf.WriteString(item.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (item *AsmItem) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%05x #%02d ", item.XP, item.Index)
	buf.WriteString(item.Name)
	if item.FixBlockedBy != nil {
		buf.WriteByte(' ')
		buf.WriteString(item.FixBlockedBy.Name)
	}
	return buf.String()
}

func (a *Assembler) link(item *AsmItem) {
	assert(item.Index == ^uint(0), "item used twice")
	item.Index = uint(len(a.List))
	a.List = append(a.List, item)
}

// ruleLabel returns the public label naming a rule's entry point.
func ruleLabel(r *grammar.Rule) string {
	name := r.Key().String()
	if name == "" || name[0] == '.' {
		name = fmt.Sprintf("rule#%d", r.ID())
	}
	return name
}
