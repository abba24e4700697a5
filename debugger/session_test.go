package debugger

import (
	"bytes"
	"testing"

	"github.com/nullptrace/godbg/repl"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDispatch_CommandsRequireRunningProcess(t *testing.T) {
	var buf bytes.Buffer
	s := New("/nonexistent/binary", &buf, zerolog.Nop())

	cmds := []repl.Command{
		{Kind: repl.Registers},
		{Kind: repl.SingleStep},
		{Kind: repl.Backtrace},
		{Kind: repl.ListBreakpoints},
		{Kind: repl.SetBreakpoint, Addr: 0x1000},
		{Kind: repl.Get, Name: "x"},
	}
	for _, cmd := range cmds {
		buf.Reset()
		err := s.Dispatch(cmd)
		require.NoError(t, err)
		require.Contains(t, buf.String(), "no process is running")
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	s := New("/nonexistent/binary", &buf, zerolog.Nop())

	err := s.Dispatch(repl.Command{Kind: repl.Unknown})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "unrecognized command")
}

func TestDispatch_Exit(t *testing.T) {
	var buf bytes.Buffer
	s := New("/nonexistent/binary", &buf, zerolog.Nop())

	err := s.Dispatch(repl.Command{Kind: repl.Exit})
	require.ErrorIs(t, err, ErrExitRequested)
}

func TestDispatch_StartFailureIsReportedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	s := New("/nonexistent/binary", &buf, zerolog.Nop())

	err := s.Dispatch(repl.Command{Kind: repl.Start})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "failed to start")
}
