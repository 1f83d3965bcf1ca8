package monitor

import (
	"errors"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ParseNumber parses a 0x-prefixed hexadecimal or a plain decimal number.
func ParseNumber(s string) (value uint64, err error) {
	base := 10
	digits := s
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		base = 16
		digits = hex
	} else if hex, ok := strings.CutPrefix(s, "0X"); ok {
		base = 16
		digits = hex
	}

	value, err = strconv.ParseUint(digits, base, 64)
	if err != nil {
		err = errors.Join(ErrParseNumber, err)
		return
	}

	return
}

// ParseAddress parses a flat address. Besides the ParseNumber forms, a
// $(...) expression is evaluated with the names in env predeclared.
func ParseAddress(s string, env map[string]uint16) (addr uint16, err error) {
	var value int64

	if expr, ok := strings.CutPrefix(s, "$("); ok {
		expr, ok = strings.CutSuffix(expr, ")")
		if !ok {
			err = errors.Join(ErrParseNumber, ErrParseExpression(s))
			return
		}
		value, err = parenEval(expr, env)
		if err != nil {
			err = errors.Join(ErrParseNumber, err)
			return
		}
	} else {
		var number uint64
		number, err = ParseNumber(s)
		if err != nil {
			return
		}
		if number > 0xffff {
			err = errors.Join(ErrAddressRange, ErrParseNumber)
			return
		}
		value = int64(number)
	}

	if value < 0 || value > 0xffff {
		err = errors.Join(ErrAddressRange, ErrParseNumber)
		return
	}

	addr = uint16(value)
	return
}

// parenEval evaluates a $(...) expression body.
func parenEval(expr string, env map[string]uint16) (value int64, err error) {
	thread := starlark.Thread{Name: "address"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, reg := range env {
		pred[key] = starlark.MakeInt(int(reg))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}
