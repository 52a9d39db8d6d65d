// Package asm implements the two-pass assembler for the Turtle CPU ISA:
// line-oriented source text in, 16-bit little-endian instruction words
// out. The first pass records label addresses and parses each
// instruction, deferring address operands that are label references;
// the second pass resolves those references to PC-relative offsets.
package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
	"github.com/tomdriley/turtle-toolkit/config"
	"github.com/tomdriley/turtle-toolkit/isa"
)

// SyntaxError is a source-level assembly error, carrying the line it
// occurred on when known.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func syntaxErrorf(line int, format string, args ...interface{}) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Instruction holds one parsed instruction's encoding fields.
type Instruction struct {
	ConditionalBranch bool              // bit 0
	BranchCondition   isa.Condition     // bits 1..3 (branch form)
	Opcode            isa.Opcode        // bits 1..3
	AddressImmediate  *busval.InstrAddr // bits 4..15
	Function          isa.Function      // bits 4..7
	DataImmediate     *busval.Data      // bits 8..15
	Register          *isa.Register     // bits 8..11
	SourceLine        string            // original text, for listings
}

// SourceLine pairs a source text line with the instruction it produced,
// if any. Listings at full comment level reproduce every line.
type SourceLine struct {
	Number        int
	Text          string
	Instruction   *Instruction
	IsInstruction bool
}

// SymbolTable maps upper-cased label names to instruction addresses.
type SymbolTable map[string]int

// Line shape: optional label, optional mnemonic, optional operand.
var lineRE = regexp.MustCompile(`^\s*(?:(\w+):)?\s*(\w+)?(?:\s+(.+))?$`)

var (
	identRE   = regexp.MustCompile(`^\w+$`)
	decimalRE = regexp.MustCompile(`^-?[0-9]+$`)
)

// labelRef is an address operand deferred to the second pass: the
// instruction, the label it names, and the instruction's own address.
type labelRef struct {
	instr   *Instruction
	label   string
	address int
	line    int
}

// ParseProgram runs both assembler passes, returning the parsed
// instructions and the symbol table.
func ParseProgram(source string) ([]*Instruction, SymbolTable, error) {
	instrs, _, labels, err := parse(source)
	return instrs, labels, err
}

func parse(source string) ([]*Instruction, []SourceLine, SymbolTable, error) {
	labels := SymbolTable{}
	var instrs []*Instruction
	var srcLines []SourceLine
	var refs []labelRef
	address := 0
	step := config.InstructionWidth / 8

	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		srcLine := SourceLine{Number: lineNo, Text: raw}

		clean := strings.TrimSpace(strings.SplitN(raw, ";", 2)[0])
		if clean != "" {
			m := lineRE.FindStringSubmatch(clean)
			if m == nil {
				return nil, nil, nil, syntaxErrorf(lineNo, "invalid syntax: %s", clean)
			}
			label, mnemonic, operand := m[1], m[2], m[3]

			if label != "" {
				labels[strings.ToUpper(label)] = address
			}

			if mnemonic != "" {
				mnemonic = strings.ToUpper(mnemonic)
				operand = strings.ToUpper(strings.TrimSpace(operand))

				mnemonic, operand, err := replaceMacros(mnemonic, operand, lineNo)
				if err != nil {
					return nil, nil, nil, err
				}

				instr, ref, err := parseInstruction(mnemonic, operand, address, lineNo)
				if err != nil {
					return nil, nil, nil, err
				}
				instr.SourceLine = strings.TrimSpace(raw)
				if ref != nil {
					refs = append(refs, *ref)
				}
				instrs = append(instrs, instr)
				srcLine.Instruction = instr
				srcLine.IsInstruction = true
				address += step
			}
		}

		srcLines = append(srcLines, srcLine)
	}

	// Second pass: resolve deferred label references. The offset is the
	// raw target - instruction address; branches resolve against the
	// pre-increment PC, so no instruction-width adjustment applies.
	for _, ref := range refs {
		target, ok := labels[ref.label]
		if !ok {
			return nil, nil, nil, syntaxErrorf(ref.line, "undefined label: %s", ref.label)
		}
		offset, err := busval.NewInstrAddr(target - ref.address)
		if err != nil {
			return nil, nil, nil, syntaxErrorf(ref.line, "label %s out of range: %v", ref.label, err)
		}
		ref.instr.AddressImmediate = &offset
	}

	return instrs, srcLines, labels, nil
}

// replaceMacros expands NOP and HALT. Neither takes an operand.
func replaceMacros(mnemonic, operand string, line int) (string, string, error) {
	switch mnemonic {
	case "NOP":
		if operand != "" {
			return "", "", syntaxErrorf(line, "NOP does not take an operand")
		}
		return "ADDI", "0", nil
	case "HALT":
		if operand != "" {
			return "", "", syntaxErrorf(line, "HALT does not take an operand")
		}
		return isa.JumpImmMnemonic, "0", nil
	}
	return mnemonic, operand, nil
}

func parseInstruction(mnemonic, operand string, address, line int) (*Instruction, *labelRef, error) {
	instr := &Instruction{}

	var noOperand, regOperand, dataImmOperand, addrImmOperand bool
	if fn, ok := isa.ALUMnemonics[mnemonic]; ok {
		instr.Opcode = isa.ARITH_LOGIC
		instr.Function = fn
		noOperand = fn == isa.INV
		regOperand = !noOperand
	} else if fn, ok := isa.ALUImmMnemonics[mnemonic]; ok {
		instr.Opcode = isa.ARITH_LOGIC_IMM
		instr.Function = fn
		dataImmOperand = true
	} else if fn, ok := isa.MemMnemonics[mnemonic]; ok {
		instr.Opcode = isa.REG_MEMORY
		instr.Function = fn
		switch fn {
		case isa.LOAD, isa.STORE:
			noOperand = true
		case isa.GET, isa.PUT:
			regOperand = true
		case isa.SET:
			dataImmOperand = true
		}
	} else if fn, ok := isa.JumpRegMnemonics[mnemonic]; ok {
		instr.Opcode = isa.JUMP_REG
		instr.Function = fn
		// The register field is not part of the mnemonic's surface;
		// register jumps take their address from the IMAR.
		r := isa.R0
		instr.Register = &r
		noOperand = true
	} else if mnemonic == isa.JumpImmMnemonic {
		instr.Opcode = isa.JUMP_IMM
		addrImmOperand = true
	} else if cond, ok := isa.BranchMnemonics[mnemonic]; ok {
		instr.ConditionalBranch = true
		instr.BranchCondition = cond
		addrImmOperand = true
	} else {
		return nil, nil, syntaxErrorf(line, "unknown mnemonic: %s", mnemonic)
	}

	if noOperand {
		if operand != "" {
			return nil, nil, syntaxErrorf(line, "%s does not take an operand", mnemonic)
		}
		return instr, nil, nil
	}

	if operand == "" {
		return nil, nil, syntaxErrorf(line, "%s requires an operand", mnemonic)
	}

	switch {
	case regOperand:
		r, ok := isa.RegistersByName[operand]
		if !ok {
			return nil, nil, syntaxErrorf(line, "invalid register: %s", operand)
		}
		instr.Register = &r
	case dataImmOperand:
		v, err := ParseImmediate(operand)
		if err != nil {
			return nil, nil, syntaxErrorf(line, "%v", err)
		}
		d, err := busval.NewData(v)
		if err != nil {
			return nil, nil, syntaxErrorf(line, "immediate %s: %v", operand, err)
		}
		instr.DataImmediate = &d
	case addrImmOperand:
		v, err := ParseImmediate(operand)
		if err != nil {
			if identRE.MatchString(operand) {
				return instr, &labelRef{instr: instr, label: operand, address: address, line: line}, nil
			}
			return nil, nil, syntaxErrorf(line, "%v", err)
		}
		a, err := busval.NewInstrAddr(v)
		if err != nil {
			return nil, nil, syntaxErrorf(line, "address %s: %v", operand, err)
		}
		instr.AddressImmediate = &a
	}

	return instr, nil, nil
}

// ParseImmediate parses an immediate token: 0x.. hex, 0b.. binary, or
// signed decimal, with underscores allowed as digit separators.
func ParseImmediate(token string) (int, error) {
	token = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(token)), "_", "")
	var v int64
	var err error
	switch {
	case strings.HasPrefix(token, "0X"):
		v, err = strconv.ParseInt(token[2:], 16, 32)
	case strings.HasPrefix(token, "0B"):
		v, err = strconv.ParseInt(token[2:], 2, 32)
	case decimalRE.MatchString(token):
		v, err = strconv.ParseInt(token, 10, 32)
	default:
		return 0, errors.Errorf("invalid immediate: %s", token)
	}
	if err != nil {
		return 0, errors.Errorf("invalid immediate: %s", token)
	}
	return int(v), nil
}

// Encode emits one instruction as two little-endian bytes, mirroring
// the decoder's field layout. Address immediates are masked to the
// 12-bit field.
func Encode(instr *Instruction) ([]byte, error) {
	var bits uint16

	if instr.ConditionalBranch {
		bits |= 1 << isa.BRANCH_FLAG_SHIFT
		bits |= uint16(instr.BranchCondition) << isa.OPCODE_SHIFT
		if instr.AddressImmediate == nil {
			return nil, errors.New("address immediate is required for a conditional branch")
		}
		bits |= (instr.AddressImmediate.Unsigned() & isa.ADDR_IMM_MASK) << isa.ADDR_IMM_SHIFT
		return []byte{byte(bits), byte(bits >> 8)}, nil
	}

	bits |= uint16(instr.Opcode) << isa.OPCODE_SHIFT

	switch instr.Opcode {
	case isa.ARITH_LOGIC:
		bits |= instr.Function.Bits() << isa.FUNC_SHIFT
		if instr.Function != isa.INV {
			if instr.Register == nil {
				return nil, errors.New("register is required for ARITH_LOGIC")
			}
			bits |= uint16(*instr.Register) << isa.REG_SHIFT
		}
	case isa.ARITH_LOGIC_IMM:
		bits |= instr.Function.Bits() << isa.FUNC_SHIFT
		if instr.DataImmediate == nil {
			return nil, errors.New("data immediate is required for ARITH_LOGIC_IMM")
		}
		bits |= instr.DataImmediate.Unsigned() << isa.DATA_IMM_SHIFT
	case isa.REG_MEMORY:
		bits |= instr.Function.Bits() << isa.FUNC_SHIFT
		if instr.Register != nil {
			bits |= uint16(*instr.Register) << isa.REG_SHIFT
		} else if instr.DataImmediate != nil {
			bits |= instr.DataImmediate.Unsigned() << isa.DATA_IMM_SHIFT
		}
	case isa.JUMP_IMM:
		if instr.AddressImmediate == nil {
			return nil, errors.New("address immediate is required for JUMP_IMM")
		}
		bits |= (instr.AddressImmediate.Unsigned() & isa.ADDR_IMM_MASK) << isa.ADDR_IMM_SHIFT
	case isa.JUMP_REG:
		bits |= instr.Function.Bits() << isa.FUNC_SHIFT
		if instr.Register == nil {
			return nil, errors.New("register is required for JUMP_REG")
		}
		bits |= uint16(*instr.Register) << isa.REG_SHIFT
	}

	return []byte{byte(bits), byte(bits >> 8)}, nil
}

// Assemble translates source text into the instruction byte image.
func Assemble(source string) ([]byte, error) {
	instrs, _, err := ParseProgram(source)
	if err != nil {
		return nil, err
	}
	return encodeAll(instrs)
}

// AssembleWithSourceLines is Assemble plus per-line source information
// for commented listings.
func AssembleWithSourceLines(source string) ([]byte, []SourceLine, error) {
	_, lines, _, err := parse(source)
	if err != nil {
		return nil, nil, err
	}
	var instrs []*Instruction
	for i := range lines {
		if lines[i].IsInstruction {
			instrs = append(instrs, lines[i].Instruction)
		}
	}
	binary, err := encodeAll(instrs)
	if err != nil {
		return nil, nil, err
	}
	return binary, lines, nil
}

func encodeAll(instrs []*Instruction) ([]byte, error) {
	binary := make([]byte, 0, 2*len(instrs))
	for _, instr := range instrs {
		b, err := Encode(instr)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %q", instr.SourceLine)
		}
		binary = append(binary, b...)
	}
	return binary, nil
}

// Pad extends an assembled image with zero bytes to the requested
// length.
func Pad(image []byte, length int) ([]byte, error) {
	if length < len(image) {
		return nil, errors.Errorf("requested length %d is less than the assembled length %d", length, len(image))
	}
	return append(image, make([]byte, length-len(image))...), nil
}
