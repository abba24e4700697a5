package tracee

import (
	"fmt"
	"sort"
)

// SetBreakpoint patches an INT3 at addr and records the displaced byte.
// Setting a breakpoint at an address that already has one is a no-op that
// returns the existing Breakpoint (idempotent set).
func (t *Tracee) SetBreakpoint(addr uint64) (*Breakpoint, error) {
	if bp, ok := t.Breakpoints[addr]; ok {
		return bp, nil
	}

	orig, err := t.writeByte(addr, 0xCC)
	if err != nil {
		return nil, fmt.Errorf("tracee: set breakpoint at 0x%x: %w", addr, err)
	}

	bp := &Breakpoint{
		Address:      addr,
		Idx:          t.NextBPNum,
		OriginalByte: orig,
	}
	t.NextBPNum++
	t.Breakpoints[addr] = bp

	return bp, nil
}

// ClearBreakpoint restores the original byte at addr and forgets the
// breakpoint. Clearing an address with no breakpoint is a no-op.
func (t *Tracee) ClearBreakpoint(addr uint64) error {
	bp, ok := t.Breakpoints[addr]
	if !ok {
		return nil
	}

	if _, err := t.writeByte(addr, bp.OriginalByte); err != nil {
		return fmt.Errorf("tracee: clear breakpoint at 0x%x: %w", addr, err)
	}
	delete(t.Breakpoints, addr)
	return nil
}

// ListBreakpoints returns every active breakpoint sorted by address.
func (t *Tracee) ListBreakpoints() []*Breakpoint {
	out := make([]*Breakpoint, 0, len(t.Breakpoints))
	for _, bp := range t.Breakpoints {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
