// Package cpu implements the execution core of a 16-bit x86-family processor.
//
// The CPU consists of a program counter (PC), eight general-purpose and six
// segment registers, and a flat 64KB memory. The four registers AX, CX, DX and
// BX also expose independent 8-bit halves (AL/AH, CL/CH, DL/DH, BL/BH).
//
// Each Step fetches one opcode byte, decodes its operands (ModRM addressing
// included) into Operand descriptors, and applies the instruction. Only a
// small subset of the instruction set is implemented; every other opcode byte
// is an explicit decode fault.
package cpu
