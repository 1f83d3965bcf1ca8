package cpu

import (
	"fmt"
)

// ModRM is the decoded addressing byte that follows many opcodes.
type ModRM struct {
	Mod uint8 // Addressing mode class, 0..3.
	Reg uint8 // Register selector.
	RM  uint8 // Register/memory selector.
}

// ParseModRM splits an addressing byte into its fields.
func ParseModRM(b uint8) ModRM {
	return ModRM{
		Mod: b >> 6,
		Reg: (b >> 3) & 7,
		RM:  b & 7,
	}
}

// RegSpace selects how the ModRM register field is interpreted.
type RegSpace int

const (
	REG_SPACE_GENERAL = RegSpace(0) // general
	REG_SPACE_SEGMENT = RegSpace(1) // segment
)

// ModeSet is a set of ModRM addressing mode classes an opcode accepts.
// Every implemented opcode accepts MODE_ALL. Memory-only forms such as
// lea, les and the far jumps need a narrower set; ResolveRM reports a
// class outside the set as ErrAddressingMode.
type ModeSet uint8

const (
	MODE_MEM      = ModeSet(1 << 0) // [ea]
	MODE_MEM_D8   = ModeSet(1 << 1) // [ea+d8]
	MODE_MEM_D16  = ModeSet(1 << 2) // [ea+d16]
	MODE_REGISTER = ModeSet(1 << 3) // reg

	MODE_ALL = MODE_MEM | MODE_MEM_D8 | MODE_MEM_D16 | MODE_REGISTER
)

// Has returns true if the mode class is in the set.
func (ms ModeSet) Has(mod uint8) bool {
	return mod < 4 && ms&(1<<mod) != 0
}

// The eight base/index combinations for 16-bit effective addresses,
// keyed by the r/m field.
var eaTable = [8]struct {
	base  RegIndex
	index RegIndex
}{
	{REG_BX, REG_SI},
	{REG_BX, REG_DI},
	{REG_BP, REG_SI},
	{REG_BP, REG_DI},
	{REG_SI, REG_NONE},
	{REG_DI, REG_NONE},
	{REG_BP, REG_NONE},
	{REG_BX, REG_NONE},
}

// FetchU8 reads the byte at PC and advances PC by 1.
func (cpu *Cpu) FetchU8() (value uint8) {
	value = cpu.Mem.ReadU8(cpu.PC)
	cpu.PC++
	return
}

// FetchU16 reads the little-endian word at PC and advances PC by 2.
func (cpu *Cpu) FetchU16() uint16 {
	lo := cpu.FetchU8()
	hi := cpu.FetchU8()
	return uint16(hi)<<8 | uint16(lo)
}

// FetchS8 reads a signed byte at PC and advances PC by 1.
func (cpu *Cpu) FetchS8() int8 {
	return int8(cpu.FetchU8())
}

// FetchS16 reads a signed word at PC and advances PC by 2.
func (cpu *Cpu) FetchS16() int16 {
	return int16(cpu.FetchU16())
}

// DecodeModRM fetches and splits a ModRM byte.
func (cpu *Cpu) DecodeModRM() ModRM {
	return ParseModRM(cpu.FetchU8())
}

// effectiveAddress computes the base/index sum selected by the r/m field.
func (cpu *Cpu) effectiveAddress(rm uint8) (addr uint16, expr string, err error) {
	if int(rm) >= len(eaTable) {
		err = decodeFault(ErrEffectiveAddress)
		return
	}

	ea := eaTable[rm]
	addr = cpu.Reg.Read16(ea.base)
	expr = ea.base.String()
	if ea.index != REG_NONE {
		addr += cpu.Reg.Read16(ea.index)
		expr += "+" + ea.index.String()
	}
	return
}

// ResolveRM resolves the r/m half of a ModRM triple into an operand,
// fetching any displacement or absolute address bytes that follow.
// Memory operands are resolved to their effective address; register
// operands name the general register selected by the r/m field.
func (cpu *Cpu) ResolveRM(m ModRM, modes ModeSet) (op Operand, err error) {
	if !modes.Has(m.Mod) {
		err = decodeFault(ErrAddressingMode, fmt.Errorf("mod %d", m.Mod))
		return
	}

	var addr uint16
	var expr string

	switch m.Mod {
	case 0:
		if m.RM == 6 {
			addr = cpu.FetchU16()
			op = Mem{Addr: addr, Expr: fmt.Sprintf("0x%04x", addr)}
			return
		}
		addr, expr, err = cpu.effectiveAddress(m.RM)
		if err != nil {
			return
		}
	case 1:
		disp := cpu.FetchS8()
		addr, expr, err = cpu.effectiveAddress(m.RM)
		if err != nil {
			return
		}
		addr += uint16(int16(disp))
		expr += displacement(int(disp))
	case 2:
		disp := cpu.FetchS16()
		addr, expr, err = cpu.effectiveAddress(m.RM)
		if err != nil {
			return
		}
		addr += uint16(disp)
		expr += displacement(int(disp))
	case 3:
		op = Reg(m.RM)
		return
	default:
		err = decodeFault(ErrAddressingMode)
		return
	}

	op = Mem{Addr: addr, Expr: expr}
	return
}

// displacement renders a signed displacement for an addressing expression.
func displacement(disp int) string {
	if disp < 0 {
		return fmt.Sprintf("-0x%x", -disp)
	}
	return fmt.Sprintf("+0x%x", disp)
}

// resolveReg resolves the register field of a ModRM triple in the given space.
func resolveReg(m ModRM, space RegSpace) (op Operand, err error) {
	switch space {
	case REG_SPACE_GENERAL:
		op = Reg(m.Reg)
	case REG_SPACE_SEGMENT:
		index := REG_ES + RegIndex(m.Reg)
		if !index.Segment() {
			err = decodeFault(ErrSegmentRegister, fmt.Errorf("sreg %d", m.Reg))
			return
		}
		op = Reg(index)
	default:
		err = decodeFault(ErrRegisterIndex)
	}
	return
}

// DecodeRMReg decodes a ModRM operand pair as (dst = r/m, src = reg).
func (cpu *Cpu) DecodeRMReg(space RegSpace, modes ModeSet) (p Params, err error) {
	m := cpu.DecodeModRM()

	rm, err := cpu.ResolveRM(m, modes)
	if err != nil {
		return
	}

	reg, err := resolveReg(m, space)
	if err != nil {
		return
	}

	p = Params{Dst: rm, Src: reg}
	return
}

// DecodeRegRM decodes a ModRM operand pair as (dst = reg, src = r/m).
func (cpu *Cpu) DecodeRegRM(space RegSpace, modes ModeSet) (p Params, err error) {
	p, err = cpu.DecodeRMReg(space, modes)
	if err != nil {
		return
	}

	p.Dst, p.Src = p.Src, p.Dst
	return
}
