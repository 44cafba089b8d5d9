package peggyvm

const allbits = ^uint64(0)

var immSigned = map[ImmType]bool{
	ImmCodeOffset: true,
}

func none() ImmMeta              { return ImmMeta{ImmNone, false} }
func required(t ImmType) ImmMeta { return ImmMeta{t, false} }
func hidden(t ImmType) ImmMeta   { return ImmMeta{t, true} }

// op0..op3 build the table entry of an opcode that takes 0 to 3 immediates.
func op0(name string) OpMeta {
	return OpMeta{Name: name, Imm0: none(), Imm1: none(), Imm2: none()}
}

func op1(name string, a ImmMeta) OpMeta {
	return OpMeta{Name: name, Imm0: a, Imm1: none(), Imm2: none()}
}

func op2(name string, a, b ImmMeta) OpMeta {
	return OpMeta{Name: name, Imm0: a, Imm1: b, Imm2: none()}
}

func op3(name string, a, b, c ImmMeta) OpMeta {
	return OpMeta{Name: name, Imm0: a, Imm1: b, Imm2: c}
}

// Every terminal instruction carries the index of the Matcher that labels
// the parse nodes it produces. It is hidden from listings.
var opMeta = [...]OpMeta{
	// control flow
	OpNOP:     op0("NOP"),
	OpCHOICE:  op1("CHOICE", required(ImmCodeOffset)),
	OpPCHOICE: op1("PCHOICE", required(ImmCodeOffset)),
	OpCOMMIT:  op1("COMMIT", required(ImmCodeOffset)),
	OpCOMMITV: op1("COMMITV", required(ImmCodeOffset)),
	OpBCOMMIT: op1("BCOMMIT", required(ImmCodeOffset)),
	OpFAIL2X:  op0("FAIL2X"),
	OpFAIL:    op0("FAIL"),
	OpJMP:     op1("JMP", required(ImmCodeOffset)),
	OpCALL:    op2("CALL", required(ImmCodeOffset), hidden(ImmMatcherIdx)),
	OpIGNERR:  op0("IGNERR"),
	OpRET:     op0("RET"),

	// character input
	OpLIT:   op2("LIT", required(ImmLiteralIdx), hidden(ImmMatcherIdx)),
	OpPAT:   op2("PAT", required(ImmPatternIdx), hidden(ImmMatcherIdx)),
	OpCLASS: op2("CLASS", required(ImmCharSetIdx), hidden(ImmMatcherIdx)),
	OpANY:   op1("ANY", hidden(ImmMatcherIdx)),
	OpEOI:   op0("EOI"),

	// token input
	OpTVAL:   op2("TVAL", required(ImmLiteralIdx), hidden(ImmMatcherIdx)),
	OpTTYPE:  op2("TTYPE", required(ImmTypeIdx), hidden(ImmMatcherIdx)),
	OpTCLASS: op2("TCLASS", required(ImmClassIdx), hidden(ImmMatcherIdx)),
	OpTTYPES: op2("TTYPES", required(ImmTypeSetIdx), hidden(ImmMatcherIdx)),
	OpTANY:   op1("TANY", hidden(ImmMatcherIdx)),
	OpADJ:    op0("ADJ"),
	OpTILLNL: op1("TILLNL", hidden(ImmMatcherIdx)),
	OpBRIDGE: op3("BRIDGE", required(ImmTypeIdx), required(ImmTypeIdx), hidden(ImmMatcherIdx)),

	OpEND: op0("END"),
}

func init() {
	for i := range opMeta {
		opMeta[i].Code = OpCode(i)
		assert(opMeta[i].Name != "", "opcode %d has no table entry", i)
	}
}
