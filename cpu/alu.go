package cpu

import (
	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/config"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// ALUOutputs is the combinational result of one ALU operation. The ALU
// never touches the status register itself; the driver copies the carry
// and overflow outputs into it and derives zero/positive from the value
// that becomes the next ACC.
type ALUOutputs struct {
	Result   busval.Data
	Carry    bool
	Overflow bool
}

// ALU is the pure combinational arithmetic/logic unit.
type ALU struct{}

// Execute runs one operation on operands a and b.
//
// Carry: for ADD, set iff unsigned(a)+unsigned(b) exceeds the maximum
// unsigned value; for SUB, set iff a borrow occurred (unsigned(a) <
// unsigned(b)). Overflow: set iff the operand signs admit it and the
// result sign differs from a's.
func (ALU) Execute(a, b busval.Data, fn isa.ALUFunc) (ALUOutputs, error) {
	var out ALUOutputs
	switch fn {
	case isa.ADD:
		out.Result = a.Add(b)
		out.Carry = int(a.Unsigned())+int(b.Unsigned()) > (1<<config.DataWidth)-1
		out.Overflow = a.IsNegative() == b.IsNegative() && out.Result.IsNegative() != a.IsNegative()
	case isa.SUB:
		out.Result = a.Sub(b)
		out.Carry = a.Unsigned() < b.Unsigned()
		out.Overflow = a.IsNegative() != b.IsNegative() && out.Result.IsNegative() != a.IsNegative()
	case isa.AND:
		out.Result = a.And(b)
	case isa.OR:
		out.Result = a.Or(b)
	case isa.XOR:
		out.Result = a.Xor(b)
	case isa.INV:
		out.Result = a.Invert()
	default:
		return ALUOutputs{}, errors.Errorf("invalid ALU function %v", fn)
	}
	return out, nil
}
