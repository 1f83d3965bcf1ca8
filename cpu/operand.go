package cpu

import (
	"fmt"
)

// Operand is a decoded instruction operand. It is one of Imm8, Imm16,
// Reg, Reg8 or Mem; consumers type-switch over exactly these.
type Operand interface {
	fmt.Stringer
	operand()
}

// Imm8 is an 8-bit immediate.
type Imm8 uint8

// Imm16 is a 16-bit immediate.
type Imm16 uint16

// Reg is a 16-bit register reference.
type Reg RegIndex

// Reg8 is an 8-bit register code: al cl dl bl ah ch dh bh.
type Reg8 uint8

// Mem is a resolved memory operand.
type Mem struct {
	Addr uint16 // Effective address.
	Expr string // Addressing expression, for disassembly.
}

func (Imm8) operand()  {}
func (Imm16) operand() {}
func (Reg) operand()   {}
func (Reg8) operand()  {}
func (Mem) operand()   {}

func (op Imm8) String() string  { return fmt.Sprintf("0x%02x", uint8(op)) }
func (op Imm16) String() string { return fmt.Sprintf("0x%04x", uint16(op)) }
func (op Reg) String() string   { return RegIndex(op).String() }
func (op Reg8) String() string  { return reg8Names[op&7] }

func (op Mem) String() string {
	if op.Expr == "" {
		return fmt.Sprintf("[0x%04x]", op.Addr)
	}
	return "[" + op.Expr + "]"
}

// Index returns the owning 16-bit register and the half addressed.
func (op Reg8) Index() (RegIndex, Half) {
	return SplitReg8(uint8(op))
}

// Params is a decoded (destination, source) operand pair.
// Either may be nil for instructions with fewer operands.
type Params struct {
	Dst Operand
	Src Operand
}

// operandKind names the variant of an operand for diagnostics.
func operandKind(op Operand) string {
	switch op.(type) {
	case nil:
		return "none"
	case Imm8:
		return "imm8"
	case Imm16:
		return "imm16"
	case Reg:
		return "reg"
	case Reg8:
		return "reg8"
	case Mem:
		return "mem"
	default:
		return "?"
	}
}
