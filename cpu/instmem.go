package cpu

import (
	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/config"
)

// Fetch latency of the instruction ROM path. The RTL advertises this as
// 10 cycles; see the latency tests, which pin the value.
const INSTRUCTION_FETCH_LATENCY_CYCLES = 10

// Word is one instruction as fetched: two bytes, little-endian.
type Word [2]byte

// Uint16 returns the instruction word as an unsigned 16-bit value.
func (w Word) Uint16() uint16 {
	return uint16(w[0]) | uint16(w[1])<<8
}

// InstructionMemory holds the instruction image, keyed by byte-aligned
// addresses advancing by the instruction size.
type InstructionMemory struct {
	mem *latencyMemory[busval.InstrAddr, Word]
}

func NewInstructionMemory() *InstructionMemory {
	return &InstructionMemory{mem: newLatencyMemory[busval.InstrAddr, Word]("instruction memory", INSTRUCTION_FETCH_LATENCY_CYCLES)}
}

// SideLoad clears the memory and loads a binary image into it, one word
// per instruction-sized step. A partial trailing byte is discarded.
func (im *InstructionMemory) SideLoad(binary []byte) error {
	im.mem.clear()

	step := config.InstructionWidth / 8
	for addr := 0; addr+step <= len(binary); addr += step {
		a, err := busval.NewInstrAddr(addr)
		if err != nil {
			return errors.Wrapf(err, "image of %d bytes overflows the instruction address space", len(binary))
		}
		im.mem.cells[a] = Word{binary[addr], binary[addr+1]}
	}
	return nil
}

// RequestFetch starts a fetch at addr.
func (im *InstructionMemory) RequestFetch(addr busval.InstrAddr) error {
	return im.mem.startOp(addr, nil)
}

// FetchReady reports whether the pending fetch has completed.
func (im *InstructionMemory) FetchReady() bool {
	return im.mem.operationComplete()
}

// FetchResult reads the fetched word.
func (im *InstructionMemory) FetchResult() (Word, error) {
	return im.mem.readValue()
}

// Tick advances the latency countdown; called once per cycle.
func (im *InstructionMemory) Tick() {
	im.mem.tick()
}
