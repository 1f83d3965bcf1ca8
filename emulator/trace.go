package emulator

import (
	"fmt"

	"github.com/ezrec/dbg86/cpu"
)

// Trace is the record of a single step.
type Trace struct {
	Addr        uint16          // Address of the instruction start.
	Instruction cpu.Instruction // Instruction as decoded.
	Err         error           // Step failure, if any.
}

// String returns the trace as a listing line.
func (tr Trace) String() string {
	line := fmt.Sprintf("%04X  %-12s %v", tr.Addr, tr.Instruction.Hex(), tr.Instruction)
	if tr.Err != nil {
		line += " ; " + f("fault")
	} else if tr.Instruction.Stub {
		line += " ; " + f("not implemented")
	}
	return line
}
