package cpu

// MEMORY_SIZE is the size of the flat address space.
const MEMORY_SIZE = 0x10000

// Memory is the flat 64KB address space. Any 16-bit address is valid.
type Memory struct {
	data [MEMORY_SIZE]uint8
}

// Reset zeros the whole address space.
func (mem *Memory) Reset() {
	clear(mem.data[:])
}

// ReadU8 reads one byte.
func (mem *Memory) ReadU8(addr uint16) uint8 {
	return mem.data[addr]
}

// WriteU8 writes one byte.
func (mem *Memory) WriteU8(addr uint16, value uint8) {
	mem.data[addr] = value
}

// ReadU16 reads a little-endian word. The high byte at 0xFFFF+1 wraps to 0.
func (mem *Memory) ReadU16(addr uint16) uint16 {
	return uint16(mem.data[addr]) | uint16(mem.data[addr+1])<<8
}

// WriteU16 writes a little-endian word.
func (mem *Memory) WriteU16(addr uint16, value uint16) {
	mem.data[addr] = uint8(value & 0xff)
	mem.data[addr+1] = uint8(value >> 8)
}

// LoadBlock copies data into memory at base. Bytes that would land at or
// beyond the end of the address space are dropped; the copy does not wrap.
// Returns the number of bytes written.
func (mem *Memory) LoadBlock(data []byte, base uint16) (n int) {
	n = copy(mem.data[base:], data)
	return
}

// Slice returns a copy of up to n bytes starting at addr, clipped at the
// end of the address space.
func (mem *Memory) Slice(addr uint16, n int) (data []byte) {
	if n <= 0 {
		return
	}
	end := min(int(addr)+n, MEMORY_SIZE)
	data = make([]byte, end-int(addr))
	copy(data, mem.data[addr:end])
	return
}
