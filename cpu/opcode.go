package cpu

// Opcode describes the handling of one opcode byte. Decode consumes the
// operand bytes and fills in the Instruction; Exec applies it. Exec is
// never called when Decode fails.
type Opcode struct {
	Name   string
	Decode func(cpu *Cpu, inst *Instruction) error
	Exec   func(cpu *Cpu, inst *Instruction) error
}

// opcodeTable maps every opcode byte to its handling. Entries without an
// instruction are opUnrecognized.
var opcodeTable [256]Opcode

var opUnrecognized = Opcode{
	Decode: (*Cpu).decodeUnrecognized,
}

func init() {
	for n := range opcodeTable {
		opcodeTable[n] = opUnrecognized
	}

	// mov r/m16, r16 ; mov r16, r/m16
	opcodeTable[0x89] = Opcode{Name: "mov", Decode: (*Cpu).decodeRMReg16, Exec: (*Cpu).execMov16}
	opcodeTable[0x8b] = Opcode{Name: "mov", Decode: (*Cpu).decodeRegRM16, Exec: (*Cpu).execMov16}

	// mov r/m16, sreg ; mov sreg, r/m16
	opcodeTable[0x8c] = Opcode{Name: "mov", Decode: (*Cpu).decodeRMSreg, Exec: (*Cpu).execMov16}
	opcodeTable[0x8e] = Opcode{Name: "mov", Decode: (*Cpu).decodeSregRM, Exec: (*Cpu).execMov16}

	// nop (xchg ax, ax)
	opcodeTable[0x90] = Opcode{Name: "nop", Decode: (*Cpu).decodeNone, Exec: (*Cpu).execNone}

	// mov r8, imm8
	for op := 0xb0; op <= 0xb7; op++ {
		opcodeTable[op] = Opcode{Name: "mov", Decode: (*Cpu).decodeReg8Imm8, Exec: (*Cpu).execMov8}
	}

	// mov r16, imm16
	for op := 0xb8; op <= 0xbf; op++ {
		opcodeTable[op] = Opcode{Name: "mov", Decode: (*Cpu).decodeReg16Imm16, Exec: (*Cpu).execMov16}
	}

	// int imm8
	opcodeTable[0xcd] = Opcode{Name: "int", Decode: (*Cpu).decodeImm8, Exec: (*Cpu).execInt}
}

// Lookup returns the handling for an opcode byte.
func Lookup(opcode uint8) Opcode {
	return opcodeTable[opcode]
}

// Known returns true if the opcode byte maps to an instruction.
func (op Opcode) Known() bool {
	return op.Exec != nil
}

func (cpu *Cpu) decodeUnrecognized(inst *Instruction) error {
	return decodeFault(ErrOpcode{Opcode: inst.Opcode, Addr: inst.Addr})
}

func (cpu *Cpu) decodeNone(inst *Instruction) error {
	return nil
}

func (cpu *Cpu) decodeImm8(inst *Instruction) error {
	inst.Params = Params{Dst: Imm8(cpu.FetchU8())}
	return nil
}

func (cpu *Cpu) decodeReg8Imm8(inst *Instruction) error {
	inst.Params = Params{
		Dst: Reg8(inst.Opcode & 7),
		Src: Imm8(cpu.FetchU8()),
	}
	return nil
}

func (cpu *Cpu) decodeReg16Imm16(inst *Instruction) error {
	inst.Params = Params{
		Dst: Reg(inst.Opcode & 7),
		Src: Imm16(cpu.FetchU16()),
	}
	return nil
}

func (cpu *Cpu) decodeRMReg16(inst *Instruction) (err error) {
	inst.Params, err = cpu.DecodeRMReg(REG_SPACE_GENERAL, MODE_ALL)
	return
}

func (cpu *Cpu) decodeRegRM16(inst *Instruction) (err error) {
	inst.Params, err = cpu.DecodeRegRM(REG_SPACE_GENERAL, MODE_ALL)
	return
}

func (cpu *Cpu) decodeRMSreg(inst *Instruction) (err error) {
	inst.Params, err = cpu.DecodeRMReg(REG_SPACE_SEGMENT, MODE_ALL)
	return
}

func (cpu *Cpu) decodeSregRM(inst *Instruction) (err error) {
	inst.Params, err = cpu.DecodeRegRM(REG_SPACE_SEGMENT, MODE_ALL)
	return
}

func (cpu *Cpu) execNone(inst *Instruction) error {
	return nil
}

// execMov8 moves an 8-bit immediate into one half of a register.
func (cpu *Cpu) execMov8(inst *Instruction) error {
	p := inst.Params

	var value uint8
	switch src := p.Src.(type) {
	case Imm8:
		value = uint8(src)
	default:
		return contractViolation("mov8", p)
	}

	switch dst := p.Dst.(type) {
	case Reg8:
		index, half := dst.Index()
		return cpu.Reg.Write8(index, half, value)
	default:
		return contractViolation("mov8", p)
	}
}

// execMov16 copies a 16-bit value. Legal shapes are reg <- imm16,
// reg <- reg, reg <- mem and mem <- reg.
func (cpu *Cpu) execMov16(inst *Instruction) error {
	p := inst.Params

	var value uint16
	switch src := p.Src.(type) {
	case Imm16:
		if _, ok := p.Dst.(Reg); !ok {
			return contractViolation("mov16", p)
		}
		value = uint16(src)
	case Reg:
		if !RegIndex(src).Valid() {
			return contractViolation("mov16", p)
		}
		value = cpu.Reg.Read16(RegIndex(src))
	case Mem:
		if _, ok := p.Dst.(Reg); !ok {
			return contractViolation("mov16", p)
		}
		value = cpu.Mem.ReadU16(src.Addr)
	default:
		return contractViolation("mov16", p)
	}

	switch dst := p.Dst.(type) {
	case Reg:
		if !RegIndex(dst).Valid() {
			return contractViolation("mov16", p)
		}
		cpu.Reg.Write16(RegIndex(dst), value)
	case Mem:
		cpu.Mem.WriteU16(dst.Addr, value)
	default:
		return contractViolation("mov16", p)
	}

	return nil
}

// execInt is the software interrupt stub. Vector dispatch is not
// implemented; the request is reported instead.
func (cpu *Cpu) execInt(inst *Instruction) error {
	vector, ok := inst.Params.Dst.(Imm8)
	if !ok {
		return contractViolation("int", inst.Params)
	}

	inst.Stub = true
	cpu.log().WithField("addr", hex16(inst.Addr)).Warn(f("int %02X not implemented", uint8(vector)))
	return nil
}
