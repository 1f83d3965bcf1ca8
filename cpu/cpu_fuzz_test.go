package cpu

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func FuzzStep(f *testing.F) {
	for opcode := range 256 {
		f.Add(uint8(opcode), uint8(0xc0), uint16(0x1234))
		f.Add(uint8(opcode), uint8(0x46), uint16(0xfffe))
		f.Add(uint8(opcode), uint8(0x86), uint16(0x8000))
	}

	f.Fuzz(func(t *testing.T, opcode uint8, modrm uint8, imm uint16) {
		assert := assert.New(t)

		logger, _ := test.NewNullLogger()

		cpu := newTestCpu(opcode, modrm, uint8(imm), uint8(imm>>8), 0x90)
		cpu.Log = logger
		for reg := REG_AX; reg <= REG_GS; reg++ {
			cpu.Reg.Write16(reg, 0x1111*uint16(reg+1))
		}

		before := *cpu

		inst, err := cpu.Step()
		assert.Equal(uint16(0x0100), inst.Addr)
		assert.Equal(opcode, inst.Opcode)
		assert.Equal(cpu.PC-0x0100, uint16(len(inst.Bytes)))
		assert.LessOrEqual(len(inst.Bytes), 4)

		if err != nil {
			assert.True(IsFatal(err))
			assert.True(IsDecodeFault(err))
			assert.False(IsContractViolation(err))
			assert.Equal(before.Reg, cpu.Reg)
			assert.Equal(before.Mem, cpu.Mem)
			return
		}

		assert.True(Lookup(opcode).Known())

		again, err := before.Disassemble(0x0100)
		assert.NoError(err)
		assert.Equal(inst.String(), again.String())
		assert.Equal(inst.Bytes, again.Bytes)
	})
}
