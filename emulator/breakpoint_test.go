package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakpoints(t *testing.T) {
	assert := assert.New(t)

	var bp Breakpoints

	assert.Empty(bp.List())
	assert.False(bp.Has(0x1234))
	assert.False(bp.Remove(0x1234))
	bp.Clear()

	assert.True(bp.Add(0x1234))
	assert.Equal([]uint16{0x1234}, bp.List())
	assert.True(bp.Has(0x1234))

	bp.Clear()
	assert.Empty(bp.List())
	assert.Equal(0, bp.Len())
}

func TestBreakpoints_Set(t *testing.T) {
	assert := assert.New(t)

	var bp Breakpoints

	for _, addr := range []uint16{0xffff, 0x0100, 0x0000, 0x0100, 0x8000} {
		bp.Add(addr)
	}
	assert.False(bp.Add(0x8000))
	assert.Equal(4, bp.Len())
	assert.Equal([]uint16{0x0000, 0x0100, 0x8000, 0xffff}, bp.List())

	assert.True(bp.Remove(0x0100))
	assert.False(bp.Has(0x0100))
	assert.Equal([]uint16{0x0000, 0x8000, 0xffff}, bp.List())
}
