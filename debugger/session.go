// Package debugger implements Session, the orchestration layer that turns
// parsed REPL commands into Tracee operations and renders their results
// through DwarfIndex, the Go-native successor of this debugger's Rust
// ancestor's debugger.rs plus its main.go's command dispatch.
package debugger

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/fatih/color"
	"github.com/nullptrace/godbg/repl"
	"github.com/nullptrace/godbg/tracee"
	"github.com/rs/zerolog"
)

// ErrExitRequested is returned by Dispatch when the user asked to quit.
var ErrExitRequested = errors.New("debugger: exit requested")

var (
	colorLocation = color.New(color.FgCyan)
	colorError    = color.New(color.FgRed, color.Bold)
	colorNotice   = color.New(color.FgYellow)
	colorOK       = color.New(color.FgGreen)
)

// Session owns a (possibly not-yet-started) Tracee for one target
// executable and renders the result of every REPL command to out.
type Session struct {
	target string
	tr     *tracee.Tracee
	out    io.Writer
	log    zerolog.Logger

	frames        []tracee.Frame
	selectedFrame int
}

// New builds a Session for the given target executable path. The process is
// not spawned until Start or the first Continue.
func New(target string, out io.Writer, log zerolog.Logger) *Session {
	return &Session{
		target: target,
		out:    out,
		log:    log.With().Str("component", "debugger").Logger(),
	}
}

// Dispatch executes one parsed command, writing any output to the Session's
// writer. It returns ErrExitRequested when the REPL should stop.
func (s *Session) Dispatch(cmd repl.Command) error {
	switch cmd.Kind {
	case repl.Exit:
		s.killIfRunning()
		return ErrExitRequested
	case repl.Start:
		return s.start()
	case repl.Continue:
		return s.cont()
	case repl.SetBreakpoint:
		return s.setBreakpoint(cmd.Addr)
	case repl.SetBreakpointByName:
		return s.setBreakpointByName(cmd.Name)
	case repl.DeleteBreakpoint:
		return s.deleteBreakpoint(cmd.Addr)
	case repl.ListBreakpoints:
		return s.listBreakpoints()
	case repl.Registers:
		return s.requireRunning(func() error { return s.tr.PrintRegisters(s.out) })
	case repl.SingleStep:
		return s.singleStep()
	case repl.Backtrace:
		return s.backtrace()
	case repl.Frame:
		return s.selectFrame(cmd.FrameIndex)
	case repl.Get:
		return s.get(cmd.Name)
	case repl.Unknown:
		colorError.Fprintln(s.out, "unrecognized command")
		return nil
	default:
		colorError.Fprintln(s.out, "unrecognized command")
		return nil
	}
}

func (s *Session) requireRunning(fn func() error) error {
	if s.tr == nil {
		colorError.Fprintln(s.out, "no process is running; use 'start' or 'cont'")
		return nil
	}
	return fn()
}

func (s *Session) killIfRunning() {
	if s.tr == nil {
		return
	}
	if err := s.tr.Kill(); err != nil {
		s.log.Warn().Err(err).Msg("failed to kill tracee on exit")
	}
	s.tr.Close() // nolint:errcheck
	s.tr = nil
}

func (s *Session) start() error {
	if s.tr != nil {
		colorNotice.Fprintln(s.out, "process is already running")
		return nil
	}

	tr, err := tracee.New(s.target, s.log)
	if err != nil {
		colorError.Fprintf(s.out, "failed to start %s: %v\n", s.target, err)
		return nil
	}
	s.tr = tr
	colorOK.Fprintf(s.out, "started %s (pid %d)\n", s.target, tr.PID)
	return nil
}

// cont auto-starts the process when it isn't running yet, per this
// debugger's "cont always works" convention.
func (s *Session) cont() error {
	if s.tr == nil {
		if err := s.start(); err != nil {
			return err
		}
		if s.tr == nil {
			return nil // start already reported the error
		}
	}

	if err := s.tr.Continue(); err != nil {
		colorError.Fprintf(s.out, "continue failed: %v\n", err)
		return nil
	}

	return s.awaitStop()
}

func (s *Session) singleStep() error {
	return s.requireRunning(func() error {
		if err := s.tr.SingleStep(); err != nil {
			colorError.Fprintf(s.out, "step failed: %v\n", err)
			return nil
		}
		return s.awaitStop()
	})
}

// awaitStop waits for the tracee's next state change and renders it:
// process exit, a fatal signal, or a normal stop (breakpoint/step) with its
// resolved source location.
func (s *Session) awaitStop() error {
	ws, err := s.tr.Wait()
	if err != nil {
		colorError.Fprintf(s.out, "wait failed: %v\n", err)
		return nil
	}

	switch {
	case ws.Exited():
		colorNotice.Fprintf(s.out, "[process exited with status %d]\n", ws.ExitStatus())
		s.tr.Close() // nolint:errcheck
		s.tr = nil
	case ws.Stopped() && ws.StopSignal() == syscall.SIGSEGV:
		colorError.Fprintln(s.out, "[Segmentation Fault]")
		off, err := s.tr.ModuleOffset()
		if err == nil {
			s.tr.DWARF.PrintCodeAt(s.out, off, 1) // nolint:errcheck
		}
	case ws.Stopped():
		off, err := s.tr.ModuleOffset()
		if err == nil {
			s.tr.DWARF.PrintCodeAt(s.out, off, 1) // nolint:errcheck
		}
	default:
		colorNotice.Fprintf(s.out, "[stopped: %v]\n", ws)
	}

	return nil
}

func (s *Session) setBreakpoint(addr uint64) error {
	return s.requireRunning(func() error {
		bp, err := s.tr.SetBreakpoint(addr)
		if err != nil {
			colorError.Fprintf(s.out, "set breakpoint failed: %v\n", err)
			return nil
		}
		colorOK.Fprintln(s.out, bp.Describe(s.tr.DWARF, s.tr.BaseAddress))
		return nil
	})
}

func (s *Session) setBreakpointByName(name string) error {
	return s.requireRunning(func() error {
		fn, ok := s.tr.DWARF.FunctionByName(name)
		if !ok || len(fn.AddressRanges) == 0 {
			colorError.Fprintf(s.out, "no such function: %s\n", name)
			return nil
		}
		addr := fn.AddressRanges[0].Low + s.tr.BaseAddress
		return s.setBreakpoint(addr)
	})
}

func (s *Session) deleteBreakpoint(addr uint64) error {
	return s.requireRunning(func() error {
		if err := s.tr.ClearBreakpoint(addr); err != nil {
			colorError.Fprintf(s.out, "delete breakpoint failed: %v\n", err)
			return nil
		}
		colorOK.Fprintf(s.out, "breakpoint at 0x%x deleted\n", addr)
		return nil
	})
}

func (s *Session) listBreakpoints() error {
	return s.requireRunning(func() error {
		for _, bp := range s.tr.ListBreakpoints() {
			colorLocation.Fprintln(s.out, bp.Describe(s.tr.DWARF, s.tr.BaseAddress))
		}
		return nil
	})
}

func (s *Session) backtrace() error {
	return s.requireRunning(func() error {
		frames, err := s.tr.Frames()
		if err != nil {
			colorError.Fprintf(s.out, "backtrace failed: %v\n", err)
			return nil
		}
		s.frames = frames
		s.selectedFrame = 0
		return s.tr.Backtrace(s.out)
	})
}

func (s *Session) selectFrame(idx int) error {
	return s.requireRunning(func() error {
		if len(s.frames) == 0 {
			frames, err := s.tr.Frames()
			if err != nil {
				colorError.Fprintf(s.out, "frame failed: %v\n", err)
				return nil
			}
			s.frames = frames
		}
		if idx < 0 || idx >= len(s.frames) {
			colorError.Fprintf(s.out, "no such frame: %d\n", idx)
			return nil
		}
		s.selectedFrame = idx
		fr := s.frames[idx]
		fmt.Fprintf(s.out, "#%d 0x%x\n", fr.Index, fr.PC+s.tr.BaseAddress)
		return nil
	})
}

func (s *Session) get(name string) error {
	return s.requireRunning(func() error {
		if len(s.frames) == 0 {
			colorError.Fprintln(s.out, "no frame selected; run 'back' or 'frame' first")
			return nil
		}
		val, ok := s.tr.VariableInFrame(s.frames[s.selectedFrame], name)
		if !ok {
			colorError.Fprintf(s.out, "no such variable: %s\n", name)
			return nil
		}
		fmt.Fprintln(s.out, val)
		return nil
	})
}
