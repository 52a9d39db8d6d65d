package cpu

import (
	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/config"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// Bit positions within the packed STATUS register.
const (
	STATUS_BIT_ZERO     = 0
	STATUS_BIT_POSITIVE = 1
	STATUS_BIT_CARRY    = 2
	STATUS_BIT_OVERFLOW = 3
)

// Status is the unpacked view of the STATUS register.
type Status struct {
	Zero     bool
	Positive bool
	Carry    bool
	Overflow bool
}

// Pack returns the status as the bit-packed register value.
func (s Status) Pack() busval.Data {
	var bits int
	for _, f := range []struct {
		set   bool
		shift int
	}{
		{s.Zero, STATUS_BIT_ZERO},
		{s.Positive, STATUS_BIT_POSITIVE},
		{s.Carry, STATUS_BIT_CARRY},
		{s.Overflow, STATUS_BIT_OVERFLOW},
	} {
		if f.set {
			bits |= 1 << f.shift
		}
	}
	return busval.MustData(bits)
}

// UnpackStatus decodes a packed STATUS register value.
func UnpackStatus(v busval.Data) Status {
	bits := v.Unsigned()
	return Status{
		Zero:     bits>>STATUS_BIT_ZERO&1 == 1,
		Positive: bits>>STATUS_BIT_POSITIVE&1 == 1,
		Carry:    bits>>STATUS_BIT_CARRY&1 == 1,
		Overflow: bits>>STATUS_BIT_OVERFLOW&1 == 1,
	}
}

// RegisterFile holds the named registers. Writes are pending until
// Commit; reads during a cycle observe pre-commit values. ACC and
// STATUS are never written through the generic channel: ACC writes go
// through SetNextACC (which also derives the Z/P flags at commit) and
// the C/V flags through SetNextStatusFlags.
type RegisterFile struct {
	regs [isa.STATUS + 1]busval.Data

	pendingReg      *isa.Register
	pendingVal      *busval.Data
	pendingACC      *busval.Data
	pendingCarry    *bool
	pendingOverflow *bool
}

// NewRegisterFile returns a register file in its reset state: all
// registers zero except STATUS, which starts with zero and positive
// set.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.regs[isa.STATUS] = Status{Zero: true, Positive: true}.Pack()
	return rf
}

// Get returns the committed value of a register.
func (rf *RegisterFile) Get(r isa.Register) (busval.Data, error) {
	if !r.Valid() {
		return busval.Data{}, errors.Errorf("unknown register %v", r)
	}
	return rf.regs[r], nil
}

// ACC returns the committed accumulator value.
func (rf *RegisterFile) ACC() busval.Data {
	return rf.regs[isa.ACC]
}

// StatusFlags returns the committed status flags.
func (rf *RegisterFile) StatusFlags() Status {
	return UnpackStatus(rf.regs[isa.STATUS])
}

// DMAR builds the wide data memory address from the DBAR/DOFF pair.
// Only the low DATA_ADDRESS_WIDTH-DATA_WIDTH bits of DBAR participate.
func (rf *RegisterFile) DMAR() busval.DataAddr {
	base := int(rf.regs[isa.DBAR].Unsigned()) & ((1 << (config.DataAddressWidth - config.DataWidth)) - 1)
	off := int(rf.regs[isa.DOFF].Unsigned()) & ((1 << config.DataWidth) - 1)
	return busval.MustDataAddr(base<<config.DataWidth | off)
}

// IMAR builds the wide instruction memory address from the IBAR/IOFF
// pair.
func (rf *RegisterFile) IMAR() busval.InstrAddr {
	base := int(rf.regs[isa.IBAR].Unsigned()) & ((1 << (config.InstructionAddressWidth - config.DataWidth)) - 1)
	off := int(rf.regs[isa.IOFF].Unsigned()) & ((1 << config.DataWidth) - 1)
	return busval.MustInstrAddr(base<<config.DataWidth | off)
}

// SetNext schedules a write through the generic register channel. ACC
// and STATUS cannot be written this way.
func (rf *RegisterFile) SetNext(r isa.Register, v busval.Data) error {
	if !r.Valid() {
		return errors.Errorf("unknown register %v", r)
	}
	if r == isa.ACC || r == isa.STATUS {
		return errors.Errorf("%v can not be written directly", r)
	}
	rf.pendingReg = &r
	rf.pendingVal = &v
	return nil
}

// SetNextACC schedules an accumulator write. The zero and positive
// flags are derived from v at commit.
func (rf *RegisterFile) SetNextACC(v busval.Data) {
	rf.pendingACC = &v
}

// SetNextStatusFlags schedules the carry and overflow flags. Zero and
// positive are only ever updated by ACC writes.
func (rf *RegisterFile) SetNextStatusFlags(carry, overflow bool) {
	rf.pendingCarry = &carry
	rf.pendingOverflow = &overflow
}

// Commit applies all pending writes atomically. A status bit is
// replaced only when a pending write covers it; the rest keep their
// current values.
func (rf *RegisterFile) Commit() error {
	if rf.pendingReg != nil {
		if rf.pendingVal == nil {
			return errors.Errorf("pending write to %v has no value", *rf.pendingReg)
		}
		if *rf.pendingReg == isa.ACC || *rf.pendingReg == isa.STATUS {
			return errors.Errorf("%v can not be written directly", *rf.pendingReg)
		}
		rf.regs[*rf.pendingReg] = *rf.pendingVal
	}
	rf.pendingReg = nil
	rf.pendingVal = nil

	var zero, positive *bool
	if rf.pendingACC != nil {
		rf.regs[isa.ACC] = *rf.pendingACC
		z := rf.pendingACC.Unsigned() == 0
		p := rf.pendingACC.Signed() >= 0
		zero, positive = &z, &p
	}
	rf.pendingACC = nil

	cur := rf.regs[isa.STATUS].Unsigned()
	nextBit := func(shift int, pending *bool) int {
		bit := int(cur>>shift) & 1
		if pending != nil {
			bit = 0
			if *pending {
				bit = 1
			}
		}
		return bit << shift
	}
	next := nextBit(STATUS_BIT_ZERO, zero) |
		nextBit(STATUS_BIT_POSITIVE, positive) |
		nextBit(STATUS_BIT_CARRY, rf.pendingCarry) |
		nextBit(STATUS_BIT_OVERFLOW, rf.pendingOverflow)
	rf.regs[isa.STATUS] = busval.MustData(next)
	rf.pendingCarry = nil
	rf.pendingOverflow = nil

	return nil
}

// pendingEmpty reports whether every pending buffer is clear.
func (rf *RegisterFile) pendingEmpty() bool {
	return rf.pendingReg == nil && rf.pendingVal == nil &&
		rf.pendingACC == nil && rf.pendingCarry == nil && rf.pendingOverflow == nil
}
