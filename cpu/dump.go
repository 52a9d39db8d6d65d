package cpu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomdriley/turtle-toolkit/config"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// FormatRegisterDump returns the register file as name = value lines.
func (s *Simulator) FormatRegisterDump() string {
	var sb strings.Builder
	digits := (config.DataWidth + 3) / 4

	sb.WriteString("// Turtle CPU register dump\n")
	for _, r := range isa.Registers {
		fmt.Fprintf(&sb, "%-6s = 0x%0*x\n", r, digits, s.regs.regs[r].Unsigned())
	}
	st := s.regs.StatusFlags()
	fmt.Fprintf(&sb, "// STATUS: zero=%t positive=%t carry=%t overflow=%t\n",
		st.Zero, st.Positive, st.Carry, st.Overflow)
	return sb.String()
}

// FormatDataMemoryDump returns the data memory as hex value lines with
// address comments, readable by the dump package's text image reader.
// With full set, every address from zero up to the highest written one
// is emitted; the backing store stays sparse either way.
func (s *Simulator) FormatDataMemoryDump(full bool) string {
	var sb strings.Builder
	digits := (config.DataWidth + 3) / 4
	addrDigits := (config.DataAddressWidth + 3) / 4
	cells := s.dmem.Snapshot()

	sb.WriteString("// Turtle CPU data memory dump\n")
	if len(cells) == 0 {
		return sb.String()
	}

	addrs := make([]int, 0, len(cells))
	for a := range cells {
		addrs = append(addrs, int(a))
	}
	sort.Ints(addrs)

	if full {
		for a := 0; a <= addrs[len(addrs)-1]; a++ {
			fmt.Fprintf(&sb, "%0*x // 0x%0*x\n", digits, cells[uint16(a)], addrDigits, a)
		}
		return sb.String()
	}
	for _, a := range addrs {
		fmt.Fprintf(&sb, "%0*x // 0x%0*x\n", digits, cells[uint16(a)], addrDigits, a)
	}
	return sb.String()
}

// FormatState returns a one-line summary of the simulation state.
func (s *Simulator) FormatState() string {
	st := s.regs.StatusFlags()
	return fmt.Sprintf("cycle %d halted=%t stalled=%t ACC=%v PC=%v status={zero=%t positive=%t carry=%t overflow=%t}",
		s.cycleCount, s.halted, s.stalled, s.regs.ACC(), s.pc.Addr(),
		st.Zero, st.Positive, st.Carry, st.Overflow)
}
