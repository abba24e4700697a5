// Package tracee owns a single traced child process: spawning it stopped
// under ptrace, software breakpoints, register and memory access, execution
// control, and frame-pointer-based stack unwinding. It is the direct
// successor of an early delve's proctl package, generalized from Go
// goroutine/gosym-aware process control to a plain DWARF/ELF target.
package tracee

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"github.com/nullptrace/godbg/dwarfidx"
	"github.com/nullptrace/godbg/procmap"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Tracee is a process under ptrace control, along with the DWARF index for
// the executable it was spawned from.
type Tracee struct {
	PID            int
	ExecutablePath string
	BaseAddress    uint64
	NextBPNum      uint32
	Breakpoints    map[uint64]*Breakpoint
	DWARF          *dwarfidx.Index

	process *os.Process
	log     zerolog.Logger
}

// New spawns executablePath under PTRACE_TRACEME with ASLR disabled
// (personality ADDR_NO_RANDOMIZE), waits for the post-execve stop, then loads
// its base address and DWARF index. The caller's goroutine is pinned to its
// OS thread for the lifetime of the returned Tracee: ptrace requests must
// come from the thread that attached.
func New(executablePath string, log zerolog.Logger) (*Tracee, error) {
	runtime.LockOSThread()

	// personality(2) is a per-process attribute inherited across fork and
	// preserved across execve, so disabling ASLR here (on the debugger
	// itself, before spawning) applies to the child it's about to exec —
	// the same trick `setarch -R` uses. The stdlib's syscall.SysProcAttr has
	// no Personality field, so this has to happen in the parent rather than
	// via SysProcAttr.
	if _, err := unix.Personality(unix.ADDR_NO_RANDOMIZE); err != nil {
		log.Warn().Err(err).Msg("could not disable ASLR via personality(2)")
	}

	cmd := exec.Command(executablePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Ptrace: true,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("tracee: spawn %s: %w", executablePath, err)
	}

	pid := cmd.Process.Pid

	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(pid, &ws, 0, nil); err != nil {
		return nil, fmt.Errorf("tracee: initial wait for pid %d: %w", pid, err)
	}

	base, err := procmap.GetBaseAddress(pid)
	if err != nil {
		log.Warn().Err(err).Int("pid", pid).Msg("could not determine load base address, defaulting to 0")
		base = 0
	}

	idx, err := dwarfidx.New(executablePath, log)
	if err != nil {
		syscall.PtraceKill(pid) // nolint:errcheck
		return nil, fmt.Errorf("tracee: load debug info for %s: %w", executablePath, err)
	}

	return &Tracee{
		PID:            pid,
		ExecutablePath: executablePath,
		BaseAddress:    base,
		Breakpoints:    make(map[uint64]*Breakpoint),
		DWARF:          idx,
		process:        cmd.Process,
		log:            log.With().Str("component", "tracee").Int("pid", pid).Logger(),
	}, nil
}

// Registers returns the tracee's current general-purpose register set.
func (t *Tracee) Registers() (*syscall.PtraceRegs, error) {
	var regs syscall.PtraceRegs
	if err := syscall.PtraceGetRegs(t.PID, &regs); err != nil {
		return nil, fmt.Errorf("tracee: getregs: %w", err)
	}
	return &regs, nil
}

func (t *Tracee) setRegisters(regs *syscall.PtraceRegs) error {
	if err := syscall.PtraceSetRegs(t.PID, regs); err != nil {
		return fmt.Errorf("tracee: setregs: %w", err)
	}
	return nil
}

// ModuleOffset returns the current rip translated to a module-relative
// offset, the coordinate system DwarfIndex works in.
func (t *Tracee) ModuleOffset() (uint64, error) {
	regs, err := t.Registers()
	if err != nil {
		return 0, err
	}
	return regs.Rip - t.BaseAddress, nil
}

// CFA returns the canonical frame address of the current frame, defined as
// rbp+16 (return address slot's successor) per the frame-pointer convention
// this debugger relies on instead of CFI.
func (t *Tracee) CFA() (uint64, error) {
	regs, err := t.Registers()
	if err != nil {
		return 0, err
	}
	return regs.Rbp + 16, nil
}

// SingleStep executes exactly one machine instruction. The caller is
// responsible for calling Wait afterwards.
func (t *Tracee) SingleStep() error {
	if err := syscall.PtraceSingleStep(t.PID); err != nil {
		return fmt.Errorf("tracee: single step: %w", err)
	}
	return nil
}

// Kill terminates the tracee immediately.
func (t *Tracee) Kill() error {
	if err := syscall.PtraceKill(t.PID); err != nil {
		return fmt.Errorf("tracee: kill: %w", err)
	}
	return nil
}

// Close releases the DWARF index's open file handle. It does not touch the
// child process.
func (t *Tracee) Close() error {
	if t.DWARF != nil {
		return t.DWARF.Close()
	}
	return nil
}
