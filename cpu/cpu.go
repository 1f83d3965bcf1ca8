package cpu

import (
	"fmt"
	"iter"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/dbg86/internal"
)

// Cpu is the simulation context for the processor: registers, program
// counter and the memory it executes from.
type Cpu struct {
	Verbose bool               // Set to enable per-instruction trace logging.
	Log     logrus.FieldLogger // Destination for trace and stub reports.

	PC  uint16       // Next instruction byte to fetch.
	Reg RegisterFile // General-purpose and segment registers.
	Mem Memory       // Flat 64KB address space.
}

// NewCpu creates a CPU with zeroed registers and memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Log: logrus.StandardLogger(),
	}

	return
}

func (cpu *Cpu) log() logrus.FieldLogger {
	if cpu.Log == nil {
		return logrus.StandardLogger()
	}
	return cpu.Log
}

// Reset clears the registers and the program counter. Memory is left as-is.
func (cpu *Cpu) Reset() {
	cpu.Reg.Reset()
	cpu.PC = 0
}

// Instruction is a decoded instruction.
type Instruction struct {
	Addr   uint16 // Address of the opcode byte.
	Opcode uint8  // Opcode byte.
	Name   string // Mnemonic, empty if unrecognized.
	Params Params // Decoded operands.
	Bytes  []byte // Raw instruction bytes consumed.
	Stub   bool   // Set if execution was reported rather than performed.
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	if inst.Name == "" {
		return fmt.Sprintf("db 0x%02x", inst.Opcode)
	}

	var args []string
	for _, op := range []Operand{inst.Params.Dst, inst.Params.Src} {
		if op != nil {
			args = append(args, op.String())
		}
	}

	if len(args) == 0 {
		return inst.Name
	}

	return inst.Name + " " + strings.Join(args, ", ")
}

// Hex returns the raw instruction bytes as hex pairs.
func (inst Instruction) Hex() string {
	words := make([]string, len(inst.Bytes))
	for n, b := range inst.Bytes {
		words[n] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(words, " ")
}

// decode fetches the opcode at PC and decodes its operands.
func (cpu *Cpu) decode() (inst Instruction, op Opcode, err error) {
	inst.Addr = cpu.PC
	defer func() {
		inst.Bytes = cpu.bytesFrom(inst.Addr)
	}()

	inst.Opcode = cpu.FetchU8()
	op = opcodeTable[inst.Opcode]
	inst.Name = op.Name

	err = op.Decode(cpu, &inst)
	return
}

// bytesFrom returns the bytes between addr and PC.
func (cpu *Cpu) bytesFrom(addr uint16) (data []byte) {
	n := cpu.PC - addr
	data = make([]byte, n)
	for i := range n {
		data[i] = cpu.Mem.ReadU8(addr + i)
	}
	return
}

// Step executes a single instruction.
//
// On failure the only state changed is PC, which has advanced past the
// bytes consumed while decoding. Every failure is fatal to the instruction
// stream and is also either a decode fault or a contract violation.
func (cpu *Cpu) Step() (inst Instruction, err error) {
	inst, op, err := cpu.decode()
	if err == nil {
		err = op.Exec(cpu, &inst)
	}

	if err != nil {
		err = joinFatal(err)
		if cpu.Verbose {
			cpu.log().WithField("addr", hex16(inst.Addr)).Debug(err)
		}
		return
	}

	if cpu.Verbose {
		cpu.log().WithFields(logrus.Fields{
			"addr":  hex16(inst.Addr),
			"bytes": inst.Hex(),
		}).Debug(inst.String())
	}

	return
}

// Disassemble decodes the instruction at addr without executing it.
// PC is left unchanged.
func (cpu *Cpu) Disassemble(addr uint16) (inst Instruction, err error) {
	pc := cpu.PC
	defer func() {
		cpu.PC = pc
	}()

	cpu.PC = addr
	inst, _, err = cpu.decode()
	return
}

// Registers iterates over the register names and values,
// general-purpose registers first.
func (cpu *Cpu) Registers() iter.Seq2[string, uint16] {
	value := func(n int) uint16 { return cpu.Reg.Read16(RegIndex(n)) }
	return internal.IterSeq2Concat(
		internal.IterSeq2Range(regNames, int(REG_AX), int(REG_ES), value),
		internal.IterSeq2Range(regNames, int(REG_ES), REG_COUNT, value),
	)
}

// snapshotOrder is the order the register snapshot lists registers in,
// with the separator printed before each group.
var snapshotOrder = []struct {
	sep  string
	regs []RegIndex
}{
	{"  ", []RegIndex{REG_AX, REG_BX, REG_CX, REG_DX}},
	{"  ", []RegIndex{REG_SP, REG_BP, REG_SI, REG_DI}},
	{"   ", []RegIndex{REG_ES, REG_CS, REG_SS, REG_DS, REG_FS, REG_GS}},
}

// String returns the register snapshot as a single line.
func (cpu *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pc:%04X", cpu.PC)
	for _, group := range snapshotOrder {
		sb.WriteString(group.sep)
		for i, reg := range group.regs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%v:%04X", reg, cpu.Reg.Read16(reg))
		}
	}

	return sb.String()
}

func hex16(value uint16) string {
	return fmt.Sprintf("%04X", value)
}
