package peggyvm

import (
	"bytes"
	"fmt"
)

// OpCode identifies an instruction.
type OpCode uint8

const (
	OpNOP OpCode = iota
	OpCHOICE
	OpPCHOICE
	OpCOMMIT
	OpCOMMITV
	OpBCOMMIT
	OpFAIL2X
	OpFAIL
	OpJMP
	OpCALL
	OpIGNERR
	OpRET
	OpLIT
	OpPAT
	OpCLASS
	OpANY
	OpEOI
	OpTVAL
	OpTTYPE
	OpTCLASS
	OpTTYPES
	OpTANY
	OpADJ
	OpTILLNL
	OpBRIDGE
	OpEND
)

// Meta returns the metadata for this opcode.
func (code OpCode) Meta() *OpMeta {
	if int(code) < len(opMeta) {
		return &opMeta[code]
	}
	return &OpMeta{
		Code:    code,
		Name:    fmt.Sprintf("ILLEGAL(%d)", uint8(code)),
		Illegal: true,
	}
}

func (code OpCode) String() string {
	return code.Meta().Name
}

// ImmType describes how an immediate is interpreted.
type ImmType uint8

const (
	ImmNone ImmType = iota
	ImmUint
	ImmCodeOffset
	ImmLiteralIdx
	ImmPatternIdx
	ImmCharSetIdx
	ImmTypeIdx
	ImmClassIdx
	ImmTypeSetIdx
	ImmMatcherIdx
)

// Signed reports whether immediates of this type are 2's complement.
func (t ImmType) Signed() bool {
	return immSigned[t]
}

// ImmMeta is the metadata about one immediate slot of an opcode.
type ImmMeta struct {
	Type ImmType

	// Hidden immediates are omitted from disassembly listings.
	Hidden bool
}

// IsPresent returns true iff the slot carries a value.
func (m ImmMeta) IsPresent() bool {
	return m.Type != ImmNone
}

// OpMeta is the metadata about an opcode.
type OpMeta struct {
	Code    OpCode
	Imm0    ImmMeta
	Imm1    ImmMeta
	Imm2    ImmMeta
	Name    string
	Illegal bool
}

// Op is a single PEG instruction.
type Op struct {
	// XP is the code address of the instruction.
	XP uint64

	// Code is this instruction's opcode.
	Code OpCode

	// Imm0, Imm1, and Imm2 are the instruction's immediates.
	Imm0 uint64
	Imm1 uint64
	Imm2 uint64
}

// Meta returns the metadata about this instruction's opcode.
func (op *Op) Meta() *OpMeta {
	return op.Code.Meta()
}

// String provides a programmer-friendly debugging string for the Op.
func (op *Op) String() string {
	var buf bytes.Buffer
	first := true

	f := func(m ImmMeta, v uint64) {
		if !m.IsPresent() {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		if m.Type.Signed() {
			fmt.Fprintf(&buf, "%d", u2s(v))
		} else {
			fmt.Fprintf(&buf, "%d", v)
		}
		first = false
	}

	meta := op.Meta()
	buf.WriteString(meta.Name)
	buf.WriteByte('<')
	f(meta.Imm0, op.Imm0)
	f(meta.Imm1, op.Imm1)
	f(meta.Imm2, op.Imm2)
	buf.WriteByte('>')
	return buf.String()
}
