package tracee

import (
	"fmt"
	"io"
)

// PrintRegisters writes the general-purpose register set to w, one line per
// group, mirroring the "regs" REPL command's output.
func (t *Tracee) PrintRegisters(w io.Writer) error {
	regs, err := t.Registers()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "rip = 0x%016x  rsp = 0x%016x  rbp = 0x%016x\n", regs.Rip, regs.Rsp, regs.Rbp)
	fmt.Fprintf(w, "rax = 0x%016x  rbx = 0x%016x  rcx = 0x%016x  rdx = 0x%016x\n", regs.Rax, regs.Rbx, regs.Rcx, regs.Rdx)
	fmt.Fprintf(w, "rsi = 0x%016x  rdi = 0x%016x\n", regs.Rsi, regs.Rdi)
	fmt.Fprintf(w, "r8  = 0x%016x  r9  = 0x%016x  r10 = 0x%016x  r11 = 0x%016x\n", regs.R8, regs.R9, regs.R10, regs.R11)
	fmt.Fprintf(w, "r12 = 0x%016x  r13 = 0x%016x  r14 = 0x%016x  r15 = 0x%016x\n", regs.R12, regs.R13, regs.R14, regs.R15)
	fmt.Fprintf(w, "eflags = 0x%x\n", regs.Eflags)

	fmt.Fprintf(w, "*rbp = %s  *rsp = %s\n", t.peekWordString(regs.Rbp), t.peekWordString(regs.Rsp))

	return nil
}

// peekWordString reads the word at addr for display in PrintRegisters,
// rendering "<invalid>" on a failed peek instead of returning an error.
func (t *Tracee) peekWordString(addr uint64) string {
	word, err := t.readWord(addr)
	if err != nil {
		return "<invalid>"
	}
	return fmt.Sprintf("0x%016x", word)
}
