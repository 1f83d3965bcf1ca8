// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/dbg86/cpu"
)

const (
	COM_OFFSET = 0x0100 // Load offset of a DOS .COM image.
)

// StopReason is the condition that ended a Run.
type StopReason int

const (
	STOP_NONE       = StopReason(iota) // Not stopped.
	STOP_BREAKPOINT                    // PC reached an armed breakpoint.
	STOP_FAULT                         // The CPU reported a fatal fault.
)

func (sr StopReason) String() string {
	switch sr {
	case STOP_BREAKPOINT:
		return "breakpoint"
	case STOP_FAULT:
		return "fault"
	default:
		return "none"
	}
}

// Stop describes how a Run ended.
type Stop struct {
	Reason StopReason // Stop condition.
	Addr   uint16     // PC on a breakpoint, faulting instruction otherwise.
	Steps  int        // Steps attempted by the run, including a faulting one.
}

func (stop Stop) String() string {
	switch stop.Reason {
	case STOP_BREAKPOINT:
		return f("breakpoint reached %04X after %d steps", stop.Addr, stop.Steps)
	case STOP_FAULT:
		return f("fault at %04X after %d steps", stop.Addr, stop.Steps)
	default:
		return f("running")
	}
}

// Emulator state. CPU + breakpoints + image placement.
type Emulator struct {
	Verbose     bool               // If set, enables verbose logging.
	*cpu.Cpu                       // Reference to the CPU simulation.
	Breakpoints Breakpoints        // Armed breakpoints, by PC.
	Base        uint16             // Offset the current image was loaded at.
	Executed    int                // Instructions executed without fault since start.
	Log         logrus.FieldLogger // Destination for run reports.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
		Log: logrus.StandardLogger(),
	}

	emu.Cpu.Log = emu.Log

	return
}

func (emu *Emulator) log() logrus.FieldLogger {
	if emu.Log == nil {
		return logrus.StandardLogger()
	}
	return emu.Log
}

// LoadImage copies an executable image into memory at offset, and
// starts execution there. Bytes past the end of the address space are
// dropped; the count actually loaded is returned.
func (emu *Emulator) LoadImage(data []byte, offset uint16) (loaded int) {
	loaded = emu.Cpu.Mem.LoadBlock(data, offset)
	emu.Base = offset
	emu.Cpu.PC = offset

	if loaded < len(data) {
		emu.log().WithField("offset", fmt.Sprintf("%04X", offset)).Warn(f("image truncated: %d of %d bytes loaded", loaded, len(data)))
	}

	return
}

// LoadCom loads a DOS .COM image.
func (emu *Emulator) LoadCom(data []byte) int {
	return emu.LoadImage(data, COM_OFFSET)
}

// Reset returns the program counter to the image base.
// Registers, memory and breakpoints are left as-is.
func (emu *Emulator) Reset() {
	emu.Cpu.PC = emu.Base
}

// Flat returns the flat address of CS:PC.
func (emu *Emulator) Flat() uint32 {
	return uint32(emu.Cpu.Reg.Read16(cpu.REG_CS))<<4 + uint32(emu.Cpu.PC)
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (trace Trace) {
	// Set CPU verbosity and reporting
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Log = emu.log()

	trace.Addr = emu.Cpu.PC
	inst, err := emu.Cpu.Step()
	trace.Instruction = inst
	if err != nil {
		trace.Err = &ErrStep{Addr: trace.Addr, Err: err}
		return
	}

	emu.Executed++

	return
}

// Steps executes up to n steps, yielding the trace of each as it
// completes. Every step runs whatever the outcome of the previous one;
// only the consumer stopping the iteration ends it early.
func (emu *Emulator) Steps(n int) iter.Seq[Trace] {
	return func(yield func(Trace) bool) {
		for range n {
			if !yield(emu.Tick()) {
				return
			}
		}
	}
}

// StepN executes exactly n steps, whatever their outcome, and returns
// the trace of each.
func (emu *Emulator) StepN(n int) (traces []Trace) {
	traces = []Trace{}
	for trace := range emu.Steps(n) {
		traces = append(traces, trace)
	}

	return
}

// Run executes steps until PC lands on a breakpoint or a step fails
// fatally. With no breakpoints armed only a fault ends the run; there
// is no step limit.
func (emu *Emulator) Run() (stop Stop, err error) {
	for {
		trace := emu.Tick()
		stop.Steps++

		if trace.Err != nil {
			if cpu.IsFatal(trace.Err) {
				stop.Reason = STOP_FAULT
				stop.Addr = trace.Addr
				err = trace.Err
				return
			}
			emu.log().Warn(trace.Err)
		}

		if emu.Breakpoints.Has(emu.Cpu.PC) {
			stop.Reason = STOP_BREAKPOINT
			stop.Addr = emu.Cpu.PC
			return
		}
	}
}
