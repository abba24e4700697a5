package tracee_test

import (
	"bytes"
	"testing"

	"github.com/nullptrace/godbg/internal/testprog"
	"github.com/nullptrace/godbg/tracee"
	"github.com/stretchr/testify/require"
)

// TestContinueProtocol_BreakpointTransparency is a live-process integration
// test (P6): hitting a breakpoint leaves rip at the breakpoint address
// (not address+1); setting the same breakpoint again returns the existing
// one, and clearing it removes it. Skipped when no C compiler is available
// to build the fixture.
func TestContinueProtocol_BreakpointTransparency(t *testing.T) {
	testprog.WithTracee(t, func(tr *tracee.Tracee) {
		fn, ok := tr.DWARF.FunctionByName("add")
		require.True(t, ok, "fixture must define add()")
		require.NotEmpty(t, fn.AddressRanges)

		addr := fn.AddressRanges[0].Low + tr.BaseAddress
		bp, err := tr.SetBreakpoint(addr)
		require.NoError(t, err)
		require.Equal(t, addr, bp.Address)

		require.NoError(t, tr.Continue())
		ws, err := tr.Wait()
		require.NoError(t, err)
		require.True(t, ws.Stopped())

		regs, err := tr.Registers()
		require.NoError(t, err)
		require.Equal(t, addr, regs.Rip, "rip must land exactly on the breakpoint address")

		// Setting the same breakpoint again is a no-op (idempotent set).
		again, err := tr.SetBreakpoint(addr)
		require.NoError(t, err)
		require.Same(t, bp, again)

		require.NoError(t, tr.ClearBreakpoint(addr))
		require.Empty(t, tr.Breakpoints)
	})
}

func TestBacktrace_Smoke(t *testing.T) {
	testprog.WithTracee(t, func(tr *tracee.Tracee) {
		fn, ok := tr.DWARF.FunctionByName("add")
		require.True(t, ok)

		addr := fn.AddressRanges[0].Low + tr.BaseAddress
		_, err := tr.SetBreakpoint(addr)
		require.NoError(t, err)
		require.NoError(t, tr.Continue())
		_, err = tr.Wait()
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tr.Backtrace(&buf))
		require.Contains(t, buf.String(), "add")
	})
}
