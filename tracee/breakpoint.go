package tracee

import (
	"fmt"

	"github.com/nullptrace/godbg/dwarfidx"
)

// Breakpoint is a software breakpoint: an INT3 (0xCC) patched over the
// original byte at Address. SetOnContinue marks a breakpoint that was hit on
// the last stop and needs to be re-armed (and possibly single-stepped past)
// before the tracee resumes.
type Breakpoint struct {
	Address       uint64
	Idx           uint32
	OriginalByte  byte
	SetOnContinue bool
}

// Describe renders a breakpoint for REPL output: "Breakpoint <n> at
// <file>:<line> (<signature>)" when a location is resolvable, else a bare
// address.
func (bp *Breakpoint) Describe(idx *dwarfidx.Index, base uint64) string {
	if idx != nil {
		moduleOffset := bp.Address - base
		if loc, ok := idx.LocationAt(moduleOffset); ok && loc.File != "" {
			sig := loc.Function
			if fn, ok := idx.FunctionAt(moduleOffset); ok {
				sig = idx.FormatFunctionSignature(fn)
			}
			return fmt.Sprintf("Breakpoint %d at %s:%d (%s)", bp.Idx, loc.File, loc.Line, sig)
		}
	}
	return fmt.Sprintf("Breakpoint %d at 0x%x", bp.Idx, bp.Address)
}
