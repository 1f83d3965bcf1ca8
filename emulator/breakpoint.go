package emulator

import (
	"maps"
	"slices"
)

// Breakpoints is a set of program counter values that stop a Run.
// The zero value is an empty set.
type Breakpoints struct {
	addrs map[uint16]struct{}
}

// Add arms a breakpoint. Returns false if it was already armed.
func (bp *Breakpoints) Add(addr uint16) bool {
	if bp.addrs == nil {
		bp.addrs = map[uint16]struct{}{}
	}

	if _, ok := bp.addrs[addr]; ok {
		return false
	}

	bp.addrs[addr] = struct{}{}
	return true
}

// Remove disarms a breakpoint. Returns false if it was not armed.
func (bp *Breakpoints) Remove(addr uint16) bool {
	if _, ok := bp.addrs[addr]; !ok {
		return false
	}

	delete(bp.addrs, addr)
	return true
}

// Clear disarms all breakpoints.
func (bp *Breakpoints) Clear() {
	clear(bp.addrs)
}

// Has returns true if addr is armed.
func (bp *Breakpoints) Has(addr uint16) (ok bool) {
	_, ok = bp.addrs[addr]
	return
}

// Len returns the number of armed breakpoints.
func (bp *Breakpoints) Len() int {
	return len(bp.addrs)
}

// List returns the armed breakpoints in ascending order.
func (bp *Breakpoints) List() []uint16 {
	return slices.Sorted(maps.Keys(bp.addrs))
}
