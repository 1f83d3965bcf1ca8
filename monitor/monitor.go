// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package monitor

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/dbg86/cpu"
	"github.com/ezrec/dbg86/emulator"
)

// LineReader supplies command lines. golang.org/x/term's Terminal is one.
type LineReader interface {
	ReadLine() (line string, err error)
}

// Prompter is a LineReader that can show a prompt.
type Prompter interface {
	SetPrompt(prompt string)
}

// Monitor is the command interpreter in front of an emulator.
type Monitor struct {
	Emu      *emulator.Emulator                // Emulator under control.
	Log      logrus.FieldLogger                // Destination for notices.
	Out      io.Writer                         // Destination for listings.
	ReadFile func(name string) ([]byte, error) // Image loader.
	Done     bool                              // Set by the quit command.
}

// NewMonitor creates a monitor for emu, reporting to the emulator's log
// and listing to standard output.
func NewMonitor(emu *emulator.Emulator) (mon *Monitor) {
	mon = &Monitor{
		Emu:      emu,
		Log:      emu.Log,
		Out:      os.Stdout,
		ReadFile: os.ReadFile,
	}

	return
}

func (mon *Monitor) log() logrus.FieldLogger {
	if mon.Log == nil {
		return logrus.StandardLogger()
	}
	return mon.Log
}

func (mon *Monitor) out() io.Writer {
	if mon.Out == nil {
		return io.Discard
	}
	return mon.Out
}

// Prompt returns the CS:PC prompt.
func (mon *Monitor) Prompt() string {
	return fmt.Sprintf("%04X:%04X> ", mon.Emu.Reg.Read16(cpu.REG_CS), mon.Emu.PC)
}

// Env returns the names usable in $(...) address expressions:
// the registers and pc.
func (mon *Monitor) Env() (env map[string]uint16) {
	env = maps.Collect(mon.Emu.Registers())
	env["pc"] = mon.Emu.PC
	return
}

func (mon *Monitor) address(s string) (uint16, error) {
	return ParseAddress(s, mon.Env())
}

// Exec runs a single command line.
func (mon *Monitor) Exec(line string) (err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "load":
		err = mon.cmdLoad(args)
	case "flat":
		err = mon.cmdFlat(args)
	case "reset":
		mon.log().Info(f("resetting CPU"))
		mon.Emu.Reset()
	case "r", "reg", "regs":
		fmt.Fprintln(mon.out(), mon.Emu.Cpu.String())
	case "d", "disasm":
		err = mon.cmdDisasm(args)
	case "m", "mem":
		err = mon.cmdMemory(args)
	case "v":
		mon.log().Info(f("executed %d instructions", mon.Emu.Executed))
	case "e":
		err = mon.cmdExecute(args)
	case "run":
		err = mon.cmdRun(args)
	case "bp", "breakpoint":
		err = mon.cmdBreakpoint(args)
	case "help", "?":
		mon.cmdHelp()
	case "exit", "quit", "q":
		mon.log().Info(f("exiting ... %d instructions executed", mon.Emu.Executed))
		mon.Done = true
	default:
		err = errors.Join(ErrUnknownCommand, fmt.Errorf("%v", cmd))
	}

	return
}

// ExecScript runs ';' separated commands, stopping at the first error
// or a quit command.
func (mon *Monitor) ExecScript(script string) (err error) {
	for line := range strings.SplitSeq(script, ";") {
		err = mon.Exec(line)
		if err != nil || mon.Done {
			return
		}
	}

	return
}

// Loop reads and runs commands until quit or end of input. Command
// errors are logged and do not end the loop.
func (mon *Monitor) Loop(lr LineReader) (err error) {
	for !mon.Done {
		if prompter, ok := lr.(Prompter); ok {
			prompter.SetPrompt(mon.Prompt())
		}

		var line string
		line, err = lr.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		cmd_err := mon.Exec(line)
		if cmd_err != nil {
			mon.log().Error(cmd_err)
		}
	}

	return
}

func (mon *Monitor) cmdLoad(args []string) (err error) {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage("load <file> [offset]")
	}

	offset := uint16(emulator.COM_OFFSET)
	if len(args) == 2 {
		offset, err = mon.address(args[1])
		if err != nil {
			return
		}
	}

	data, err := mon.ReadFile(args[0])
	if err != nil {
		return
	}

	loaded := mon.Emu.LoadImage(data, offset)
	mon.log().Info(f("loaded %d bytes at %04X", loaded, offset))

	return
}

func (mon *Monitor) cmdFlat(args []string) (err error) {
	if len(args) != 0 {
		return ErrUsage("flat")
	}

	mon.log().Info(f("%04X:%04X is %06X", mon.Emu.Reg.Read16(cpu.REG_CS), mon.Emu.PC, mon.Emu.Flat()))
	return
}

func (mon *Monitor) cmdDisasm(args []string) (err error) {
	addr := mon.Emu.PC
	count := uint64(1)

	switch len(args) {
	case 2:
		count, err = ParseNumber(args[1])
		if err != nil {
			return
		}
		fallthrough
	case 1:
		addr, err = mon.address(args[0])
		if err != nil {
			return
		}
	case 0:
	default:
		return ErrUsage("d [addr [count]]")
	}

	for range count {
		inst, dis_err := mon.Emu.Disassemble(addr)
		trace := emulator.Trace{Addr: addr, Instruction: inst, Err: dis_err}
		fmt.Fprintln(mon.out(), trace.String())
		addr += uint16(len(inst.Bytes))
	}

	return
}

func (mon *Monitor) cmdMemory(args []string) (err error) {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage("m <addr> [count]")
	}

	addr, err := mon.address(args[0])
	if err != nil {
		return
	}

	count := uint64(16)
	if len(args) == 2 {
		count, err = ParseNumber(args[1])
		if err != nil {
			return
		}
	}

	data := mon.Emu.Mem.Slice(addr, int(min(count, cpu.MEMORY_SIZE)))
	for line := range slices.Chunk(data, 16) {
		words := make([]string, len(line))
		for n, b := range line {
			words[n] = fmt.Sprintf("%02X", b)
		}
		fmt.Fprintf(mon.out(), "%04X  %v\n", addr, strings.Join(words, " "))
		addr += uint16(len(line))
	}

	return
}

func (mon *Monitor) cmdExecute(args []string) (err error) {
	n := uint64(1)

	switch len(args) {
	case 1:
		n, err = ParseNumber(args[0])
		if err != nil {
			return
		}
		if n > math.MaxInt {
			err = errors.Join(ErrParseNumber, fmt.Errorf("count %v", args[0]))
			return
		}
	case 0:
	default:
		return ErrUsage("e [count]")
	}

	mon.log().Info(f("executing %d instructions", n))
	for trace := range mon.Emu.Steps(int(n)) {
		fmt.Fprintln(mon.out(), trace.String())
		if trace.Err != nil {
			mon.log().Error(trace.Err)
		}
	}

	return
}

func (mon *Monitor) cmdRun(args []string) (err error) {
	if len(args) != 0 {
		return ErrUsage("run")
	}

	mon.log().Warn(f("executing until a breakpoint"))

	stop, err := mon.Emu.Run()
	switch stop.Reason {
	case emulator.STOP_BREAKPOINT:
		mon.log().Warn(f("breakpoint reached %04X", stop.Addr))
	case emulator.STOP_FAULT:
		mon.log().WithField("steps", stop.Steps).Error(f("failed to execute instruction, breaking"))
	}

	return
}

func (mon *Monitor) cmdBreakpoint(args []string) (err error) {
	if len(args) < 1 {
		return ErrUsage("bp add|remove|clear|list|help")
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "help":
		mon.log().Info(f("available breakpoint commands:"))
		mon.log().Info(f("  bp add 0x123     adds a breakpoint"))
		mon.log().Info(f("  bp remove 0x123  removes a breakpoint"))
		mon.log().Info(f("  bp clear         clears all breakpoints"))
		mon.log().Info(f("  bp list          list all breakpoints"))
	case "add", "set":
		if len(args) != 1 {
			return ErrUsage("bp add <addr>")
		}
		var addr uint16
		addr, err = mon.address(args[0])
		if err != nil {
			return
		}
		mon.Emu.Breakpoints.Add(addr)
		mon.log().Info(f("breakpoint added: %04X", addr))
	case "remove", "del":
		if len(args) != 1 {
			return ErrUsage("bp remove <addr>")
		}
		var addr uint16
		addr, err = mon.address(args[0])
		if err != nil {
			return
		}
		if mon.Emu.Breakpoints.Remove(addr) {
			mon.log().Info(f("breakpoint removed: %04X", addr))
		} else {
			mon.log().Warn(f("no breakpoint at %04X", addr))
		}
	case "clear":
		mon.Emu.Breakpoints.Clear()
	case "list":
		var words []string
		for _, addr := range mon.Emu.Breakpoints.List() {
			words = append(words, fmt.Sprintf("%04X", addr))
		}
		fmt.Fprintln(mon.out(), f("breakpoints: %v", strings.Join(words, " ")))
	default:
		err = errors.Join(ErrUnknownCommand, fmt.Errorf("bp %v", sub))
	}

	return
}

var helpText = []string{
	"load <file> [offset]  load an image, default offset 0x100",
	"reset                 return PC to the image base",
	"r                     show registers",
	"d [addr [count]]      disassemble",
	"e [count]             execute instructions",
	"run                   execute until a breakpoint or fault",
	"bp help               breakpoint commands",
	"m <addr> [count]      dump memory",
	"v                     instructions executed",
	"flat                  flat address of CS:PC",
	"q                     quit",
}

func (mon *Monitor) cmdHelp() {
	for _, line := range helpText {
		fmt.Fprintln(mon.out(), line)
	}
}
