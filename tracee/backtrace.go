package tracee

import (
	"fmt"
	"io"

	"github.com/nullptrace/godbg/dwarfidx"
)

// maxBacktraceDepth bounds the rbp-chain walk so a corrupted or
// frame-pointer-omitted stack cannot loop forever.
const maxBacktraceDepth = 256

// Frame is one reconstructed stack frame: its module-relative PC, the rbp
// that frame was entered with, and the function DWARF resolved it to (nil if
// unresolvable, e.g. a frame inside a library with no debug info).
type Frame struct {
	Index int
	PC    uint64
	RBP   uint64
	Func  *dwarfidx.Function
}

// CFA is this frame's canonical frame address (rbp+16), the base every
// DW_OP_fbreg offset in Func is relative to.
func (f Frame) CFA() uint64 {
	return f.RBP + 16
}

// Frames walks the rbp chain starting at the current registers, per DWARF's
// frame-pointer convention: the return address lives at rbp+8, the caller's
// saved rbp at rbp+0. This is explicitly not CFI-based unwinding; a frame
// compiled without a frame pointer (e.g. -fomit-frame-pointer) breaks the
// chain and truncates the backtrace early.
func (t *Tracee) Frames() ([]Frame, error) {
	regs, err := t.Registers()
	if err != nil {
		return nil, err
	}

	var frames []Frame
	rip, rbp := regs.Rip, regs.Rbp

	for i := 0; i < maxBacktraceDepth; i++ {
		moduleOffset := rip - t.BaseAddress
		fn, _ := t.DWARF.FunctionAt(moduleOffset)
		frames = append(frames, Frame{Index: i, PC: moduleOffset, RBP: rbp, Func: fn})

		if rbp == 0 {
			break
		}

		retAddr, err := t.readWord(rbp + 8)
		if err != nil {
			break
		}
		savedRBP, err := t.readWord(rbp)
		if err != nil {
			break
		}
		if retAddr == 0 {
			break
		}

		rip, rbp = retAddr, savedRBP
	}

	return frames, nil
}

// Backtrace writes one line per frame ("#<n> <location>") followed by that
// frame's parameters and locals, to w.
func (t *Tracee) Backtrace(w io.Writer) error {
	frames, err := t.Frames()
	if err != nil {
		return err
	}

	for _, fr := range frames {
		t.printFrameHeader(w, fr)
		if fr.Func != nil {
			t.printFrameVars(w, fr.Func, fr.CFA())
		}
	}
	return nil
}

func (t *Tracee) printFrameHeader(w io.Writer, fr Frame) {
	if loc, ok := t.DWARF.LocationAt(fr.PC); ok && loc.File != "" {
		sig := loc.Function
		if fr.Func != nil {
			sig = t.DWARF.FormatFunctionSignature(fr.Func)
		}
		fmt.Fprintf(w, "#%d 0x%x in %s at %s:%d\n", fr.Index, fr.PC+t.BaseAddress, sig, loc.File, loc.Line)
		return
	}
	if fr.Func != nil {
		fmt.Fprintf(w, "#%d 0x%x in %s\n", fr.Index, fr.PC+t.BaseAddress, t.DWARF.FormatFunctionSignature(fr.Func))
		return
	}
	fmt.Fprintf(w, "#%d 0x%x in ??\n", fr.Index, fr.PC+t.BaseAddress)
}

func (t *Tracee) printFrameVars(w io.Writer, fn *dwarfidx.Function, cfa uint64) {
	for _, p := range fn.FormalParameters {
		fmt.Fprintf(w, "    %s\n", t.describeVar(p.Name, p.TypeRef, cfa, p.FBRegOffset))
	}
	for _, v := range fn.LocalVariables {
		fmt.Fprintf(w, "    %s\n", t.describeVar(v.Name, v.TypeRef, cfa, v.FBRegOffset))
	}
}
