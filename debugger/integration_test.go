package debugger_test

import (
	"bytes"
	"testing"

	"github.com/nullptrace/godbg/debugger"
	"github.com/nullptrace/godbg/internal/testprog"
	"github.com/nullptrace/godbg/repl"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSession_BreakpointAndGet(t *testing.T) {
	path, ok := testprog.Build(t)
	if !ok {
		t.Skip("cc not available, skipping live-process integration test")
	}

	var buf bytes.Buffer
	s := debugger.New(path, &buf, zerolog.Nop())
	defer s.Dispatch(repl.Command{Kind: repl.Exit}) // nolint:errcheck

	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.Start}))
	require.Contains(t, buf.String(), "started")

	buf.Reset()
	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.SetBreakpointByName, Name: "add"}))
	require.Contains(t, buf.String(), "Breakpoint 0")

	buf.Reset()
	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.Continue}))

	buf.Reset()
	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.Backtrace}))
	require.Contains(t, buf.String(), "add")

	buf.Reset()
	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.Frame, FrameIndex: 0}))

	buf.Reset()
	require.NoError(t, s.Dispatch(repl.Command{Kind: repl.Get, Name: "a"}))
	require.Contains(t, buf.String(), "a =")
}
