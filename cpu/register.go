package cpu

// RegIndex is a 16-bit register index.
type RegIndex int

const (
	REG_AX = RegIndex(0)  // ax
	REG_CX = RegIndex(1)  // cx
	REG_DX = RegIndex(2)  // dx
	REG_BX = RegIndex(3)  // bx
	REG_SP = RegIndex(4)  // sp
	REG_BP = RegIndex(5)  // bp
	REG_SI = RegIndex(6)  // si
	REG_DI = RegIndex(7)  // di
	REG_ES = RegIndex(8)  // es
	REG_CS = RegIndex(9)  // cs
	REG_SS = RegIndex(10) // ss
	REG_DS = RegIndex(11) // ds
	REG_FS = RegIndex(12) // fs
	REG_GS = RegIndex(13) // gs

	REG_COUNT = 14           // Number of registers in the file.
	REG_NONE  = RegIndex(-1) // No register.
)

var regNames = []string{
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"es", "cs", "ss", "ds", "fs", "gs",
}

var reg8Names = []string{
	"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh",
}

// String returns the assembly name of the register.
func (ri RegIndex) String() string {
	if !ri.Valid() {
		return "?"
	}
	return regNames[ri]
}

// Valid returns true if the index names a register in the file.
func (ri RegIndex) Valid() bool {
	return ri >= REG_AX && ri <= REG_GS
}

// Segment returns true for the segment registers.
func (ri RegIndex) Segment() bool {
	return ri >= REG_ES && ri <= REG_GS
}

// Half selects one byte of a 16-bit register.
type Half int

const (
	HALF_LO = Half(0) // lo
	HALF_HI = Half(1) // hi
)

// Register16 is a 16-bit register stored as two independent bytes.
type Register16 struct {
	Hi uint8
	Lo uint8
}

// U16 composes the register value.
func (r Register16) U16() uint16 {
	return uint16(r.Hi)<<8 | uint16(r.Lo)
}

// SetU16 replaces both halves.
func (r *Register16) SetU16(value uint16) {
	r.Hi = uint8(value >> 8)
	r.Lo = uint8(value & 0xff)
}

// RegisterFile holds the general-purpose and segment registers.
type RegisterFile struct {
	reg [REG_COUNT]Register16
}

// Reset clears every register.
func (rf *RegisterFile) Reset() {
	clear(rf.reg[:])
}

// Read16 reads the full value of a register.
// Callers must pass a valid index; the decoder never produces any other.
func (rf *RegisterFile) Read16(index RegIndex) uint16 {
	if !index.Valid() {
		panic("register index out of range")
	}
	return rf.reg[index].U16()
}

// Write16 replaces the full value of a register.
func (rf *RegisterFile) Write16(index RegIndex, value uint16) {
	if !index.Valid() {
		panic("register index out of range")
	}
	rf.reg[index].SetU16(value)
}

// Read8 reads one half of AX, CX, DX or BX.
func (rf *RegisterFile) Read8(index RegIndex, half Half) (value uint8, err error) {
	if index < REG_AX || index > REG_BX {
		err = decodeFault(ErrRegister8)
		return
	}

	if half == HALF_HI {
		value = rf.reg[index].Hi
	} else {
		value = rf.reg[index].Lo
	}
	return
}

// Write8 replaces one half of AX, CX, DX or BX, leaving the other half alone.
func (rf *RegisterFile) Write8(index RegIndex, half Half, value uint8) (err error) {
	if index < REG_AX || index > REG_BX {
		err = decodeFault(ErrRegister8)
		return
	}

	if half == HALF_HI {
		rf.reg[index].Hi = value
	} else {
		rf.reg[index].Lo = value
	}
	return
}

// SplitReg8 splits a 3-bit 8-bit register code (al cl dl bl ah ch dh bh)
// into the owning register and the half it addresses.
func SplitReg8(code uint8) (index RegIndex, half Half) {
	index = RegIndex(code & 3)
	half = HALF_LO
	if code&4 != 0 {
		half = HALF_HI
	}
	return
}
