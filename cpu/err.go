package cpu

import (
	"errors"

	"github.com/ezrec/dbg86/translate"
)

var f = translate.From

var (
	// Failure kinds
	ErrDecode   = errors.New(f("decode fault"))
	ErrContract = errors.New(f("contract violation"))
	ErrFatal    = errors.New(f("fatal"))

	// Decode fault details
	ErrAddressingMode   = errors.New(f("addressing mode not supported"))
	ErrSegmentRegister  = errors.New(f("segment register invalid"))
	ErrRegister8        = errors.New(f("register has no 8-bit view"))
	ErrRegisterIndex    = errors.New(f("register index invalid"))
	ErrEffectiveAddress = errors.New(f("effective address unresolved"))
)

// ErrOpcode reports an opcode byte with no instruction behind it.
type ErrOpcode struct {
	Opcode uint8  // Offending byte.
	Addr   uint16 // Address of the instruction start.
}

func (eo ErrOpcode) Error() string {
	return f("unrecognized opcode 0x%02X at %04X", eo.Opcode, eo.Addr)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrOperand reports an operand pair that an execution routine does not accept.
type ErrOperand struct {
	Routine string
	Params  Params
}

func (eo ErrOperand) Error() string {
	return f("%v: unsupported operands dst=%v src=%v", eo.Routine, operandKind(eo.Params.Dst), operandKind(eo.Params.Src))
}

func (eo ErrOperand) Is(err error) (ok bool) {
	_, ok = err.(ErrOperand)
	return
}

// decodeFault builds a decode fault from its details.
func decodeFault(errs ...error) error {
	return errors.Join(append([]error{ErrDecode}, errs...)...)
}

// contractViolation builds a contract violation for the named routine.
func contractViolation(routine string, p Params) error {
	return errors.Join(ErrContract, ErrOperand{Routine: routine, Params: p})
}

// IsFatal returns true if the error halts the instruction stream.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

// IsDecodeFault returns true if the error is a decode fault.
func IsDecodeFault(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsContractViolation returns true if the error is an engine contract violation.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContract)
}

// joinFatal marks a step failure as fatal to the instruction stream.
func joinFatal(err error) error {
	if IsFatal(err) {
		return err
	}
	return errors.Join(ErrFatal, err)
}
