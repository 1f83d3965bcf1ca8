package cpu

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestStep_MovReg16Imm16(t *testing.T) {
	assert := assert.New(t)

	for n := range uint8(8) {
		cpu := newTestCpu(0xb8+n, 0x34, 0x12)
		for other := REG_AX; other <= REG_DI; other++ {
			cpu.Reg.Write16(other, 0xeeee)
		}

		inst, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(uint16(0x1234), cpu.Reg.Read16(RegIndex(n)))
		assert.Equal(uint16(0x0103), cpu.PC)
		assert.Equal([]byte{0xb8 + n, 0x34, 0x12}, inst.Bytes)
		assert.Equal(fmt.Sprintf("mov %v, 0x1234", RegIndex(n)), inst.String())

		for other := REG_AX; other <= REG_DI; other++ {
			if other != RegIndex(n) {
				assert.Equal(uint16(0xeeee), cpu.Reg.Read16(other))
			}
		}
	}
}

func TestStep_MovReg8Imm8(t *testing.T) {
	assert := assert.New(t)

	for n := range uint8(8) {
		cpu := newTestCpu(0xb0+n, 0x5a)
		for reg := REG_AX; reg <= REG_BX; reg++ {
			cpu.Reg.Write16(reg, 0xa1b2)
		}

		inst, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(uint16(0x0102), cpu.PC)

		index, half := SplitReg8(n)
		want := uint16(0xa15a)
		if half == HALF_HI {
			want = 0x5ab2
		}
		assert.Equal(want, cpu.Reg.Read16(index), inst.String())
		assert.Equal(fmt.Sprintf("mov %v, 0x5a", Reg8(n)), inst.String())
	}
}

func TestStep_MovReg16_DiscardsHalves(t *testing.T) {
	assert := assert.New(t)

	// mov al, 0x11 ; mov ah, 0x22 ; mov ax, 0x3344
	cpu := newTestCpu(0xb0, 0x11, 0xb4, 0x22, 0xb8, 0x44, 0x33)
	for range 2 {
		_, err := cpu.Step()
		assert.NoError(err)
	}
	assert.Equal(uint16(0x2211), cpu.Reg.Read16(REG_AX))

	_, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x3344), cpu.Reg.Read16(REG_AX))
	v, _ := cpu.Reg.Read8(REG_AX, HALF_HI)
	assert.Equal(uint8(0x33), v)
}

func TestStep_MovSreg(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		code  []byte
		check func(cpu *Cpu)
		text  string
	}){
		{"mov ds, ax", []byte{0x8e, 0xd8}, func(cpu *Cpu) {
			assert.Equal(uint16(0x1234), cpu.Reg.Read16(REG_DS))
		}, "mov ds, ax"},
		{"mov es, [0x2000]", []byte{0x8e, 0x06, 0x00, 0x20}, func(cpu *Cpu) {
			assert.Equal(uint16(0xbeef), cpu.Reg.Read16(REG_ES))
		}, "mov es, [0x2000]"},
		{"mov ss, [bx+si+4]", []byte{0x8e, 0x50, 0x04}, func(cpu *Cpu) {
			assert.Equal(uint16(0xcafe), cpu.Reg.Read16(REG_SS))
		}, "mov ss, [bx+si+0x4]"},
		{"mov ax, cs", []byte{0x8c, 0xc8}, func(cpu *Cpu) {
			assert.Equal(uint16(0x0f00), cpu.Reg.Read16(REG_AX))
		}, "mov ax, cs"},
		{"mov [0x3000], cs", []byte{0x8c, 0x0e, 0x00, 0x30}, func(cpu *Cpu) {
			assert.Equal(uint16(0x0f00), cpu.Mem.ReadU16(0x3000))
		}, "mov [0x3000], cs"},
		{"mov [bp+0x1000], gs", []byte{0x8c, 0xae, 0x00, 0x10}, func(cpu *Cpu) {
			assert.Equal(uint16(0x6565), cpu.Mem.ReadU16(0x1800))
		}, "mov [bp+0x1000], gs"},
	}

	for _, entry := range table {
		cpu := newTestCpu(entry.code...)
		cpu.Reg.Write16(REG_AX, 0x1234)
		cpu.Reg.Write16(REG_BX, 0x0ff0)
		cpu.Reg.Write16(REG_SI, 0x0010)
		cpu.Reg.Write16(REG_BP, 0x0800)
		cpu.Reg.Write16(REG_CS, 0x0f00)
		cpu.Reg.Write16(REG_GS, 0x6565)
		cpu.Mem.WriteU16(0x2000, 0xbeef)
		cpu.Mem.WriteU16(0x1004, 0xcafe)

		inst, err := cpu.Step()
		assert.NoError(err, entry.name)
		assert.Equal(0x0100+uint16(len(entry.code)), cpu.PC, entry.name)
		assert.Equal(entry.text, inst.String(), entry.name)
		entry.check(cpu)
	}
}

func TestStep_MovGeneral(t *testing.T) {
	assert := assert.New(t)

	// mov [di], cx ; mov dx, [di] ; mov si, dx
	cpu := newTestCpu(0x89, 0x0d, 0x8b, 0x15, 0x8b, 0xf2)
	cpu.Reg.Write16(REG_CX, 0x7777)
	cpu.Reg.Write16(REG_DI, 0x0400)

	for range 3 {
		_, err := cpu.Step()
		assert.NoError(err)
	}

	assert.Equal(uint16(0x7777), cpu.Mem.ReadU16(0x0400))
	assert.Equal(uint16(0x7777), cpu.Reg.Read16(REG_DX))
	assert.Equal(uint16(0x7777), cpu.Reg.Read16(REG_SI))
	assert.Equal(uint16(0x0106), cpu.PC)
}

func TestStep_MovRegToReg_ReadsCurrentValue(t *testing.T) {
	assert := assert.New(t)

	// mov bl, 0x01 ; mov bh, 0x02 ; mov es, bx
	cpu := newTestCpu(0xb3, 0x01, 0xb7, 0x02, 0x8e, 0xc3)
	for range 3 {
		_, err := cpu.Step()
		assert.NoError(err)
	}
	assert.Equal(uint16(0x0201), cpu.Reg.Read16(REG_ES))
}

func TestStep_Nop(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x90)
	inst, err := cpu.Step()
	assert.NoError(err)
	assert.Equal("nop", inst.String())
	assert.Equal(uint16(0x0101), cpu.PC)
}

func TestStep_Int(t *testing.T) {
	assert := assert.New(t)

	logger, hook := test.NewNullLogger()

	cpu := newTestCpu(0xcd, 0x21)
	cpu.Log = logger
	cpu.Reg.Write16(REG_AX, 0x4c00)

	inst, err := cpu.Step()
	assert.NoError(err)
	assert.True(inst.Stub)
	assert.Equal("int 0x21", inst.String())
	assert.Equal(uint16(0x0102), cpu.PC)
	assert.Equal(uint16(0x4c00), cpu.Reg.Read16(REG_AX))

	entry := hook.LastEntry()
	if assert.NotNil(entry) {
		assert.Equal(logrus.WarnLevel, entry.Level)
		assert.Contains(entry.Message, "int 21")
		assert.Equal("0100", entry.Data["addr"])
	}
}

func TestStep_Unrecognized(t *testing.T) {
	assert := assert.New(t)

	for _, opcode := range []uint8{0x00, 0x0f, 0x63, 0xd6, 0xf1, 0xff} {
		cpu := newTestCpu(opcode, 0xb8, 0x34, 0x12)
		cpu.Reg.Write16(REG_AX, 0x5555)

		inst, err := cpu.Step()
		assert.ErrorIs(err, ErrDecode)
		assert.ErrorIs(err, ErrOpcode{})
		assert.True(IsFatal(err))
		assert.False(IsContractViolation(err))
		assert.Contains(err.Error(), fmt.Sprintf("0x%02X at 0100", opcode))

		assert.Equal(uint16(0x0101), cpu.PC)
		assert.Equal(uint16(0x5555), cpu.Reg.Read16(REG_AX))
		assert.Equal([]byte{opcode}, inst.Bytes)
		assert.Equal(fmt.Sprintf("db 0x%02x", opcode), inst.String())
	}
}

func TestStep_SegmentFieldInvalid(t *testing.T) {
	assert := assert.New(t)

	// mov <sreg 7>, [bx+0x12]
	cpu := newTestCpu(0x8e, 0x7f, 0x12)
	cpu.Reg.Write16(REG_BX, 0x1000)

	_, err := cpu.Step()
	assert.ErrorIs(err, ErrSegmentRegister)
	assert.True(IsDecodeFault(err))
	assert.True(IsFatal(err))
	assert.Equal(uint16(0x0103), cpu.PC)
}

func TestExec_ContractViolation(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		exec   func(cpu *Cpu, inst *Instruction) error
		params Params
	}){
		{"mov16 imm dst", (*Cpu).execMov16, Params{Dst: Imm16(1), Src: Reg(REG_AX)}},
		{"mov16 imm8 src", (*Cpu).execMov16, Params{Dst: Reg(REG_AX), Src: Imm8(1)}},
		{"mov16 mem to mem", (*Cpu).execMov16, Params{Dst: Mem{Addr: 2}, Src: Mem{Addr: 4}}},
		{"mov16 imm to mem", (*Cpu).execMov16, Params{Dst: Mem{Addr: 2}, Src: Imm16(4)}},
		{"mov16 reg8 dst", (*Cpu).execMov16, Params{Dst: Reg8(0), Src: Reg(REG_BX)}},
		{"mov16 bad reg", (*Cpu).execMov16, Params{Dst: Reg(REG_COUNT), Src: Reg(REG_BX)}},
		{"mov16 missing", (*Cpu).execMov16, Params{}},
		{"mov8 reg dst", (*Cpu).execMov8, Params{Dst: Reg(REG_AX), Src: Imm8(1)}},
		{"mov8 imm dst", (*Cpu).execMov8, Params{Dst: Imm8(3), Src: Imm8(1)}},
		{"mov8 reg src", (*Cpu).execMov8, Params{Dst: Reg8(0), Src: Reg(REG_AX)}},
		{"int reg", (*Cpu).execInt, Params{Dst: Reg(REG_AX)}},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Mem.WriteU16(2, 0x1111)
		cpu.Mem.WriteU16(4, 0x2222)

		err := entry.exec(cpu, &Instruction{Params: entry.params})
		assert.ErrorIs(err, ErrContract, entry.name)
		assert.ErrorIs(err, ErrOperand{}, entry.name)
		assert.False(IsDecodeFault(err), entry.name)

		assert.Equal(uint16(0x1111), cpu.Mem.ReadU16(2), entry.name)
		for reg := REG_AX; reg <= REG_GS; reg++ {
			assert.Equal(uint16(0), cpu.Reg.Read16(reg), entry.name)
		}
	}
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0xb8, 0x34, 0x12, 0x8e, 0x47, 0xfe, 0xcd, 0x10)
	cpu.PC = 0x0200

	table := [](struct {
		addr uint16
		text string
		hex  string
	}){
		{0x0100, "mov ax, 0x1234", "B8 34 12"},
		{0x0103, "mov es, [bx-0x2]", "8E 47 FE"},
		{0x0106, "int 0x10", "CD 10"},
	}

	for _, entry := range table {
		inst, err := cpu.Disassemble(entry.addr)
		assert.NoError(err)
		assert.Equal(entry.text, inst.String())
		assert.Equal(entry.hex, inst.Hex())
		assert.Equal(uint16(0x0200), cpu.PC)
	}

	assert.Equal(uint16(0), cpu.Reg.Read16(REG_AX))
	assert.Equal(uint16(0), cpu.Reg.Read16(REG_ES))
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.PC = 0x0100
	for reg := REG_AX; reg <= REG_GS; reg++ {
		cpu.Reg.Write16(reg, uint16(reg)+1)
	}

	assert.Equal("pc:0100"+
		"  ax:0001 bx:0004 cx:0002 dx:0003"+
		"  sp:0005 bp:0006 si:0007 di:0008"+
		"   es:0009 cs:000A ss:000B ds:000C fs:000D gs:000E",
		cpu.String())
}

func TestCpu_Registers(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Reg.Write16(REG_SI, 0x1234)
	cpu.Reg.Write16(REG_FS, 0xabcd)

	var names []string
	values := map[string]uint16{}
	for name, value := range cpu.Registers() {
		names = append(names, name)
		values[name] = value
	}

	assert.Equal([]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
		"es", "cs", "ss", "ds", "fs", "gs"}, names)
	assert.Equal(uint16(0x1234), values["si"])
	assert.Equal(uint16(0xabcd), values["fs"])
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x90)
	cpu.Reg.Write16(REG_DS, 0x1234)
	cpu.Reset()

	assert.Equal(uint16(0), cpu.PC)
	assert.Equal(uint16(0), cpu.Reg.Read16(REG_DS))
	assert.Equal(uint8(0x90), cpu.Mem.ReadU8(0x0100))
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	known := 0
	for opcode := range 256 {
		op := Lookup(uint8(opcode))
		assert.NotNil(op.Decode)
		if op.Known() {
			known++
			assert.NotEmpty(op.Name)
		}
	}
	// 89 8b 8c 8e 90 b0-b7 b8-bf cd
	assert.Equal(22, known)
}
