package monitor

import (
	"errors"

	"github.com/ezrec/dbg86/translate"
)

var f = translate.From

var (
	ErrUnknownCommand = errors.New(f("unknown command"))
	ErrParseNumber    = errors.New(f("number invalid"))
	ErrAddressRange   = errors.New(f("address out of range"))
)

// ErrUsage reports a command invoked with the wrong arguments.
type ErrUsage string

func (err ErrUsage) Error() string {
	return f("usage: %v", string(err))
}

func (err ErrUsage) Is(target error) (ok bool) {
	_, ok = target.(ErrUsage)
	return
}

// ErrParseExpression reports a $(...) expression that does not evaluate
// to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) (ok bool) {
	_, ok = target.(ErrParseExpression)
	return
}
