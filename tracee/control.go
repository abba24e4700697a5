package tracee

import (
	"fmt"
	"syscall"
)

// Continue implements the armed/transient breakpoint protocol: any
// breakpoint marked SetOnContinue (i.e. the tracee is currently stopped on
// it) is re-armed with 0xCC; if the re-armed breakpoint is the one the
// tracee is sitting on, it must be single-stepped past first or it would
// immediately retrap on the same instruction. All SetOnContinue flags are
// cleared before resuming.
func (t *Tracee) Continue() error {
	regs, err := t.Registers()
	if err != nil {
		return err
	}
	rip := regs.Rip

	needSingleStep := false
	for addr, bp := range t.Breakpoints {
		if !bp.SetOnContinue {
			continue
		}
		if _, err := t.writeByte(addr, 0xCC); err != nil {
			return fmt.Errorf("tracee: re-arm breakpoint at 0x%x: %w", addr, err)
		}
		if addr == rip {
			needSingleStep = true
		}
	}
	for _, bp := range t.Breakpoints {
		bp.SetOnContinue = false
	}

	if needSingleStep {
		if err := t.SingleStep(); err != nil {
			return err
		}
		if _, err := t.Wait(); err != nil {
			return err
		}
	}

	if err := syscall.PtraceCont(t.PID, 0); err != nil {
		return fmt.Errorf("tracee: cont: %w", err)
	}
	return nil
}

// Wait blocks until the tracee changes state. On a SIGTRAP stop caused by a
// breakpoint, it rewinds rip past the INT3 byte, marks the hit breakpoint
// for re-arming on the next Continue, and restores the original instruction
// byte so execution can proceed transparently (the tracee never observes the
// INT3 at its own rip).
func (t *Tracee) Wait() (syscall.WaitStatus, error) {
	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(t.PID, &ws, 0, nil); err != nil {
		return ws, fmt.Errorf("tracee: wait: %w", err)
	}

	if ws.Stopped() && ws.StopSignal() == syscall.SIGTRAP {
		regs, err := t.Registers()
		if err != nil {
			return ws, err
		}
		regs.Rip--

		if bp, ok := t.Breakpoints[regs.Rip]; ok {
			bp.SetOnContinue = true
			if err := t.setRegisters(regs); err != nil {
				return ws, err
			}
		}

		if bp, ok := t.Breakpoints[regs.Rip]; ok {
			if _, err := t.writeByte(bp.Address, bp.OriginalByte); err != nil {
				return ws, fmt.Errorf("tracee: restore breakpoint at 0x%x: %w", bp.Address, err)
			}
		}
	}

	return ws, nil
}
