package emulator

import (
	"github.com/ezrec/dbg86/translate"
)

var f = translate.From

// ErrStep indicates the instruction address of a step failure.
type ErrStep struct {
	Addr uint16
	Err  error
}

func (err *ErrStep) Error() string {
	return f("%04X: %v", err.Addr, err.Err)
}

func (err *ErrStep) Unwrap() error {
	return err.Err
}
