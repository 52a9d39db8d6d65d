package cpu

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/asm"
	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// SimulationTimeout is returned by RunUntilHalt when the watchdog cycle
// limit is reached before a HALT.
type SimulationTimeout struct {
	CycleCount int
}

func (e *SimulationTimeout) Error() string {
	return fmt.Sprintf("simulation timed out after %d cycles", e.CycleCount)
}

// Result is the outcome of a completed simulation.
type Result struct {
	CycleCount int
	Halted     bool
}

// Simulator drives the modeled microarchitecture one cycle at a time:
// fetch, decode, execute, memory access, PC update, then a commit that
// makes the cycle's pending writes visible. A stage that can't make
// progress stalls the cycle; the cycle counter still advances so the
// memory latency countdowns keep running.
type Simulator struct {
	alu  ALU
	imem *InstructionMemory
	dmem *DataMemory
	regs *RegisterFile
	pc   *ProgramCounter

	cycleCount int
	halted     bool
	stalled    bool
}

// NewSimulator returns a simulator in its reset state.
func NewSimulator() *Simulator {
	s := &Simulator{}
	s.Reset()
	return s
}

// Reset returns every module to its power-on state.
func (s *Simulator) Reset() {
	s.imem = NewInstructionMemory()
	s.dmem = NewDataMemory()
	s.regs = NewRegisterFile()
	s.pc = NewProgramCounter()
	s.cycleCount = 0
	s.halted = false
	s.stalled = false
}

// LoadBinary side-loads an instruction image, clearing any previous
// one.
func (s *Simulator) LoadBinary(binary []byte) error {
	return s.imem.SideLoad(binary)
}

// LoadProgram assembles source text and side-loads the result.
func (s *Simulator) LoadProgram(source string) error {
	binary, err := asm.Assemble(source)
	if err != nil {
		return err
	}
	return s.LoadBinary(binary)
}

func (s *Simulator) CycleCount() int { return s.cycleCount }
func (s *Simulator) Halted() bool    { return s.halted }

// ACC returns the committed accumulator value.
func (s *Simulator) ACC() busval.Data { return s.regs.ACC() }

// StatusFlags returns the committed status flags.
func (s *Simulator) StatusFlags() Status { return s.regs.StatusFlags() }

// Register returns the committed value of a register.
func (s *Simulator) Register(r isa.Register) (busval.Data, error) { return s.regs.Get(r) }

// DataMemorySnapshot returns the written data memory cells keyed by
// unsigned address.
func (s *Simulator) DataMemorySnapshot() map[uint16]uint16 { return s.dmem.Snapshot() }

// executeCycle runs the five pipeline stages. Stage results mutate only
// pending module state; commitAll applies them afterwards.
func (s *Simulator) executeCycle() error {
	ok, err := s.fetchStage()
	if err != nil || !ok {
		return err
	}

	decoded, ok, err := s.decodeStage()
	if err != nil || !ok {
		return err
	}

	if err := s.executeStage(decoded); err != nil {
		return err
	}

	ok, err = s.memoryStage(decoded)
	if err != nil || !ok {
		return err
	}

	return s.updateProgramCounter(decoded)
}

// fetchStage requests a fetch at the PC, stalling until the instruction
// memory is ready.
func (s *Simulator) fetchStage() (bool, error) {
	if err := s.imem.RequestFetch(s.pc.Addr()); err != nil {
		return false, err
	}
	if !s.imem.FetchReady() {
		s.stalled = true
		s.pc.SetStall(true)
		return false, nil
	}
	s.pc.SetStall(false)
	s.stalled = false
	return true, nil
}

// decodeStage reads the fetched word and decodes it. A HALT stops the
// simulation without advancing the PC.
func (s *Simulator) decodeStage() (Decoded, bool, error) {
	word, err := s.imem.FetchResult()
	if err != nil {
		return Decoded{}, false, err
	}
	decoded := Decode(word)
	if decoded.Halt {
		s.halted = true
		return Decoded{}, false, nil
	}
	return decoded, true, nil
}

func (s *Simulator) executeStage(d Decoded) error {
	switch {
	case d.ALU:
		operandB := d.ImmediateData
		if !d.ALUImmediate {
			var err error
			if operandB, err = s.regs.Get(d.Register); err != nil {
				return err
			}
		}
		out, err := s.alu.Execute(s.regs.ACC(), operandB, d.ALUFunction)
		if err != nil {
			return err
		}
		s.regs.SetNextACC(out.Result)
		s.regs.SetNextStatusFlags(out.Carry, out.Overflow)
	case d.RegisterFileOp:
		switch {
		case d.RegisterSet:
			s.regs.SetNextACC(d.ImmediateData)
		case d.RegisterGet:
			v, err := s.regs.Get(d.Register)
			if err != nil {
				return err
			}
			s.regs.SetNextACC(v)
		case d.RegisterPut:
			if err := s.regs.SetNext(d.Register, s.regs.ACC()); err != nil {
				return err
			}
		default:
			return errors.New("register file operation decoded with no function")
		}
	case d.MemoryOp, d.JumpOp, d.Branch:
		// Handled by the later stages.
	default:
		return errors.New("illegal instruction: no opcode family matched")
	}
	return nil
}

// memoryStage performs a pending LOAD or STORE at the DMAR, stalling
// until the data memory handshake completes.
func (s *Simulator) memoryStage(d Decoded) (bool, error) {
	if !d.MemoryOp {
		return true, nil
	}

	switch {
	case d.MemoryLoad:
		if err := s.dmem.RequestLoad(s.regs.DMAR()); err != nil {
			return false, err
		}
		if !s.dmem.LoadReady() {
			s.stalled = true
			s.pc.SetStall(true)
			return false, nil
		}
		s.pc.SetStall(false)
		s.stalled = false
		v, err := s.dmem.LoadResult()
		if err != nil {
			return false, err
		}
		s.regs.SetNextACC(v)
	case d.MemoryStore:
		if err := s.dmem.RequestStore(s.regs.DMAR(), s.regs.ACC()); err != nil {
			return false, err
		}
		if !s.dmem.StoreComplete() {
			s.stalled = true
			s.pc.SetStall(true)
			return false, nil
		}
		s.pc.SetStall(false)
		s.stalled = false
	}
	return true, nil
}

func (s *Simulator) updateProgramCounter(d Decoded) error {
	switch {
	case d.Branch:
		return s.pc.ConditionallyBranch(s.regs.StatusFlags(), d.AddressImmediate, d.BranchCondition)
	case d.JumpOp:
		switch {
		case d.ImmediateJump:
			s.pc.JumpRelative(d.AddressImmediate)
		case d.RelativeJump:
			s.pc.JumpRelative(s.regs.IMAR())
		default:
			s.pc.JumpAbsolute(s.regs.IMAR())
		}
	default:
		s.pc.Increment()
	}
	return nil
}

// commitAll applies the cycle's pending state: register file first,
// then the memory latency ticks, then the program counter (which is
// stall-aware).
func (s *Simulator) commitAll() error {
	if err := s.regs.Commit(); err != nil {
		return err
	}
	s.imem.Tick()
	s.dmem.Tick()
	return s.pc.Commit()
}

// RunUntilHalt executes cycles until a HALT instruction. maxCycles > 0
// is a watchdog: reaching it without halting returns a
// *SimulationTimeout carrying the cycle count. All other errors
// propagate unchanged from the modules.
func (s *Simulator) RunUntilHalt(maxCycles int) (Result, error) {
	cyclesRun := 0
	for {
		if maxCycles > 0 && cyclesRun >= maxCycles {
			return Result{}, &SimulationTimeout{CycleCount: s.cycleCount}
		}
		if err := s.executeCycle(); err != nil {
			return Result{}, err
		}
		cyclesRun++
		s.cycleCount++
		if s.halted {
			return Result{CycleCount: s.cycleCount, Halted: true}, nil
		}
		if err := s.commitAll(); err != nil {
			return Result{}, err
		}
	}
}
