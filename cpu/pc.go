package cpu

import (
	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/config"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// ProgramCounter holds the current instruction address and the pending
// next address. While stalled, a commit keeps the current value and
// drops anything pending.
type ProgramCounter struct {
	value busval.InstrAddr
	next  *busval.InstrAddr
	stall bool
}

func NewProgramCounter() *ProgramCounter {
	return &ProgramCounter{}
}

// Addr returns the current instruction address.
func (pc *ProgramCounter) Addr() busval.InstrAddr {
	return pc.value
}

// Increment schedules the next sequential instruction address.
func (pc *ProgramCounter) Increment() {
	n := pc.value.Add(busval.MustInstrAddr(config.InstructionWidth / 8))
	pc.next = &n
}

// JumpRelative schedules a jump by a signed offset from the current
// address.
func (pc *ProgramCounter) JumpRelative(offset busval.InstrAddr) {
	n := pc.value.Add(offset)
	pc.next = &n
}

// JumpAbsolute schedules a jump to an absolute address.
func (pc *ProgramCounter) JumpAbsolute(addr busval.InstrAddr) {
	pc.next = &addr
}

// ConditionallyBranch schedules a relative jump when cond holds under
// the given status flags, and an increment otherwise.
func (pc *ProgramCounter) ConditionallyBranch(st Status, offset busval.InstrAddr, cond isa.Condition) error {
	var take bool
	switch cond {
	case isa.ZERO:
		take = st.Zero
	case isa.NOT_ZERO:
		take = !st.Zero
	case isa.POSITIVE:
		take = st.Positive
	case isa.NEGATIVE:
		take = !st.Positive
	case isa.CARRY_SET:
		take = st.Carry
	case isa.CARRY_CLEARED:
		take = !st.Carry
	case isa.OVERFLOW_SET:
		take = st.Overflow
	case isa.OVERFLOW_CLEARED:
		take = !st.Overflow
	default:
		return errors.Errorf("unknown branch condition %v", cond)
	}

	if take {
		pc.JumpRelative(offset)
	} else {
		pc.Increment()
	}
	return nil
}

// SetStall marks the program counter stalled or running.
func (pc *ProgramCounter) SetStall(stall bool) {
	pc.stall = stall
}

// Commit moves the pending next address into place. A stalled commit
// keeps the current value; a non-stalled commit with nothing pending is
// a protocol violation.
func (pc *ProgramCounter) Commit() error {
	if pc.stall {
		pc.next = nil
		return nil
	}
	if pc.next == nil {
		return errors.New("program counter has no pending next value")
	}
	pc.value = *pc.next
	pc.next = nil
	return nil
}
