// Package busval implements fixed-width values on the Turtle CPU's three
// buses: the data bus, the data address bus, and the instruction address
// bus. A value accepts any integer in [-2^(W-1), 2^W-1] on construction
// and stores the unsigned representative mod 2^W; the signed view is the
// two's-complement reading of the same bits. The three types differ only
// in width and are never mixed. Equality compares unsigned values; the
// types deliberately carry no ordering operations, since a bare
// comparison can't know whether the bits are signed or unsigned.
package busval

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/config"
)

func mask(width int) uint16 {
	return uint16((1 << width) - 1)
}

func construct(v, width int) (uint16, error) {
	min := -(1 << (width - 1))
	max := (1 << width) - 1
	if v < min || v > max {
		return 0, errors.Errorf("value %d out of range [%d, %d] for a %d-bit bus", v, min, max, width)
	}
	return uint16(v) & mask(width), nil
}

func signed(bits uint16, width int) int {
	v := int(bits)
	if bits&(1<<(width-1)) != 0 {
		v -= 1 << width
	}
	return v
}

func sliceBits(bits uint16, width, start, end int) (uint16, error) {
	if start < 0 || end > width || start >= end {
		return 0, errors.Errorf("invalid slice [%d, %d) of a %d-bit value", start, end, width)
	}
	return (bits >> start) & mask(end-start), nil
}

func format(bits uint16, width int) string {
	return fmt.Sprintf("0x%0*x", (width+3)/4, bits)
}

// Data is a value on the data bus.
type Data struct{ bits uint16 }

// NewData builds a data-bus value, rejecting integers outside the union
// of the signed and unsigned ranges for the configured width.
func NewData(v int) (Data, error) {
	bits, err := construct(v, config.DataWidth)
	if err != nil {
		return Data{}, errors.Wrap(err, "data bus")
	}
	return Data{bits}, nil
}

// MustData is NewData for values known to be in range.
func MustData(v int) Data {
	d, err := NewData(v)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Data) Unsigned() uint16 { return d.bits }
func (d Data) Signed() int      { return signed(d.bits, config.DataWidth) }
func (d Data) IsNegative() bool { return d.Signed() < 0 }

// Slice returns bits [start, end) as a new value on the same bus.
func (d Data) Slice(start, end int) (Data, error) {
	bits, err := sliceBits(d.bits, config.DataWidth, start, end)
	return Data{bits}, err
}

func (d Data) Add(o Data) Data { return Data{(d.bits + o.bits) & mask(config.DataWidth)} }
func (d Data) Sub(o Data) Data { return Data{(d.bits - o.bits) & mask(config.DataWidth)} }
func (d Data) And(o Data) Data { return Data{d.bits & o.bits} }
func (d Data) Or(o Data) Data  { return Data{d.bits | o.bits} }
func (d Data) Xor(o Data) Data { return Data{d.bits ^ o.bits} }
func (d Data) Invert() Data    { return Data{^d.bits & mask(config.DataWidth)} }

// Binary returns the zero-padded bit string, e.g. "00001111".
func (d Data) Binary() string { return fmt.Sprintf("%0*b", config.DataWidth, d.bits) }
func (d Data) String() string { return format(d.bits, config.DataWidth) }

// DataAddr is a value on the data address bus.
type DataAddr struct{ bits uint16 }

// NewDataAddr builds a data-address-bus value.
func NewDataAddr(v int) (DataAddr, error) {
	bits, err := construct(v, config.DataAddressWidth)
	if err != nil {
		return DataAddr{}, errors.Wrap(err, "data address bus")
	}
	return DataAddr{bits}, nil
}

// MustDataAddr is NewDataAddr for values known to be in range.
func MustDataAddr(v int) DataAddr {
	a, err := NewDataAddr(v)
	if err != nil {
		panic(err)
	}
	return a
}

func (a DataAddr) Unsigned() uint16 { return a.bits }
func (a DataAddr) Signed() int      { return signed(a.bits, config.DataAddressWidth) }
func (a DataAddr) IsNegative() bool { return a.Signed() < 0 }

func (a DataAddr) Slice(start, end int) (DataAddr, error) {
	bits, err := sliceBits(a.bits, config.DataAddressWidth, start, end)
	return DataAddr{bits}, err
}

func (a DataAddr) Add(o DataAddr) DataAddr {
	return DataAddr{(a.bits + o.bits) & mask(config.DataAddressWidth)}
}
func (a DataAddr) Sub(o DataAddr) DataAddr {
	return DataAddr{(a.bits - o.bits) & mask(config.DataAddressWidth)}
}
func (a DataAddr) And(o DataAddr) DataAddr { return DataAddr{a.bits & o.bits} }
func (a DataAddr) Or(o DataAddr) DataAddr  { return DataAddr{a.bits | o.bits} }
func (a DataAddr) Xor(o DataAddr) DataAddr { return DataAddr{a.bits ^ o.bits} }
func (a DataAddr) Invert() DataAddr        { return DataAddr{^a.bits & mask(config.DataAddressWidth)} }

func (a DataAddr) Binary() string { return fmt.Sprintf("%0*b", config.DataAddressWidth, a.bits) }
func (a DataAddr) String() string { return format(a.bits, config.DataAddressWidth) }

// InstrAddr is a value on the instruction address bus.
type InstrAddr struct{ bits uint16 }

// NewInstrAddr builds an instruction-address-bus value.
func NewInstrAddr(v int) (InstrAddr, error) {
	bits, err := construct(v, config.InstructionAddressWidth)
	if err != nil {
		return InstrAddr{}, errors.Wrap(err, "instruction address bus")
	}
	return InstrAddr{bits}, nil
}

// MustInstrAddr is NewInstrAddr for values known to be in range.
func MustInstrAddr(v int) InstrAddr {
	a, err := NewInstrAddr(v)
	if err != nil {
		panic(err)
	}
	return a
}

func (a InstrAddr) Unsigned() uint16 { return a.bits }
func (a InstrAddr) Signed() int      { return signed(a.bits, config.InstructionAddressWidth) }
func (a InstrAddr) IsNegative() bool { return a.Signed() < 0 }

func (a InstrAddr) Slice(start, end int) (InstrAddr, error) {
	bits, err := sliceBits(a.bits, config.InstructionAddressWidth, start, end)
	return InstrAddr{bits}, err
}

func (a InstrAddr) Add(o InstrAddr) InstrAddr {
	return InstrAddr{(a.bits + o.bits) & mask(config.InstructionAddressWidth)}
}
func (a InstrAddr) Sub(o InstrAddr) InstrAddr {
	return InstrAddr{(a.bits - o.bits) & mask(config.InstructionAddressWidth)}
}
func (a InstrAddr) And(o InstrAddr) InstrAddr { return InstrAddr{a.bits & o.bits} }
func (a InstrAddr) Or(o InstrAddr) InstrAddr  { return InstrAddr{a.bits | o.bits} }
func (a InstrAddr) Xor(o InstrAddr) InstrAddr { return InstrAddr{a.bits ^ o.bits} }
func (a InstrAddr) Invert() InstrAddr {
	return InstrAddr{^a.bits & mask(config.InstructionAddressWidth)}
}

func (a InstrAddr) Binary() string { return fmt.Sprintf("%0*b", config.InstructionAddressWidth, a.bits) }
func (a InstrAddr) String() string { return format(a.bits, config.InstructionAddressWidth) }
