package cpu

import (
	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// Decoded is the decoder's view of one fetched instruction word. The
// Register and immediate fields are raw slices of the word; they are
// meaningful only for the instruction families whose booleans are set,
// and an unassigned register index only faults when an instruction
// actually reads it.
type Decoded struct {
	Halt bool

	Branch           bool
	BranchCondition  isa.Condition
	AddressImmediate busval.InstrAddr

	ALU           bool
	ALUImmediate  bool
	ALUFunction   isa.ALUFunc
	Register      isa.Register
	ImmediateData busval.Data

	RegisterFileOp bool
	RegisterSet    bool
	RegisterGet    bool
	RegisterPut    bool

	MemoryOp    bool
	MemoryLoad  bool
	MemoryStore bool

	JumpOp        bool
	ImmediateJump bool
	RelativeJump  bool
}

// Decode extracts the instruction fields from a fetched word. It is a
// pure function of the 16 fetched bits.
func Decode(w Word) Decoded {
	inst := w.Uint16()

	branch := inst>>isa.BRANCH_FLAG_SHIFT&1 == 1
	op := isa.Opcode(inst >> isa.OPCODE_SHIFT & isa.OPCODE_MASK)
	addrImm := inst >> isa.ADDR_IMM_SHIFT & isa.ADDR_IMM_MASK
	fn := inst >> isa.FUNC_SHIFT & isa.FUNC_MASK
	memFn := isa.MemFunc(fn)

	// The 12-bit address immediate is a signed PC-relative offset,
	// sign-extended to the instruction address width.
	offset := int(addrImm)
	if addrImm&(1<<(isa.ADDR_IMM_WIDTH-1)) != 0 {
		offset -= 1 << isa.ADDR_IMM_WIDTH
	}

	alu := !branch && (op == isa.ARITH_LOGIC_IMM || op == isa.ARITH_LOGIC)
	regMem := !branch && op == isa.REG_MEMORY
	regFileOp := regMem && (memFn == isa.GET || memFn == isa.PUT || memFn == isa.SET)
	memOp := regMem && (memFn == isa.LOAD || memFn == isa.STORE)
	jump := !branch && (op == isa.JUMP_IMM || op == isa.JUMP_REG)

	return Decoded{
		Halt: !branch && op == isa.JUMP_IMM && addrImm == 0,

		Branch:           branch,
		BranchCondition:  isa.Condition(inst >> isa.OPCODE_SHIFT & isa.OPCODE_MASK),
		AddressImmediate: busval.MustInstrAddr(offset),

		ALU:           alu,
		ALUImmediate:  alu && op == isa.ARITH_LOGIC_IMM,
		ALUFunction:   isa.ALUFunc(fn),
		Register:      isa.Register(inst >> isa.REG_SHIFT & isa.REG_MASK),
		ImmediateData: busval.MustData(int(inst >> isa.DATA_IMM_SHIFT & isa.DATA_IMM_MASK)),

		RegisterFileOp: regFileOp,
		RegisterSet:    regFileOp && memFn == isa.SET,
		RegisterGet:    regFileOp && memFn == isa.GET,
		RegisterPut:    regFileOp && memFn == isa.PUT,

		MemoryOp:    memOp,
		MemoryLoad:  memOp && memFn == isa.LOAD,
		MemoryStore: memOp && memFn == isa.STORE,

		JumpOp:        jump,
		ImmediateJump: jump && op == isa.JUMP_IMM,
		RelativeJump:  jump && isa.JumpFunc(fn) == isa.JUMP_RELATIVE,
	}
}
