package repl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_SimpleVerbs(t *testing.T) {
	cases := map[string]Kind{
		"cont":  Continue,
		"c":     Continue,
		"r":     Continue,
		"start": Start,
		"exit":  Exit,
		"e":     Exit,
		"regs":  Registers,
		"s":     SingleStep,
		"lsb":   ListBreakpoints,
		"back":  Backtrace,
		"":      Unknown,
		"bogus": Unknown,
	}
	for input, want := range cases {
		require.Equal(t, want, Parse(input).Kind, "input %q", input)
	}
}

func TestParse_Frame(t *testing.T) {
	cmd := Parse("frame 2")
	require.Equal(t, Frame, cmd.Kind)
	require.Equal(t, 2, cmd.FrameIndex)

	cmd = Parse("f")
	require.Equal(t, Frame, cmd.Kind)
	require.Equal(t, 0, cmd.FrameIndex)
}

func TestParse_Get(t *testing.T) {
	cmd := Parse("get x")
	require.Equal(t, Get, cmd.Kind)
	require.Equal(t, "x", cmd.Name)

	require.Equal(t, Unknown, Parse("get").Kind)
}

func TestParse_BreakpointSetByAddress(t *testing.T) {
	cmd := Parse("bp set 0x4010a0")
	require.Equal(t, SetBreakpoint, cmd.Kind)
	require.Equal(t, uint64(0x4010a0), cmd.Addr)
}

func TestParse_BreakpointSetByName(t *testing.T) {
	cmd := Parse("bp set main")
	require.Equal(t, SetBreakpointByName, cmd.Kind)
	require.Equal(t, "main", cmd.Name)
}

func TestParse_BreakpointDelete(t *testing.T) {
	cmd := Parse("bp del 0x4010a0")
	require.Equal(t, DeleteBreakpoint, cmd.Kind)
	require.Equal(t, uint64(0x4010a0), cmd.Addr)

	require.Equal(t, Unknown, Parse("bp del main").Kind)
}

func TestParse_BreakpointMalformed(t *testing.T) {
	require.Equal(t, Unknown, Parse("bp").Kind)
	require.Equal(t, Unknown, Parse("bp set").Kind)
	require.Equal(t, Unknown, Parse("bp frobnicate main").Kind)
}

func TestParse_ShorthandSetByAddress(t *testing.T) {
	cmd := Parse("b 0x4010a0")
	require.Equal(t, SetBreakpoint, cmd.Kind)
	require.Equal(t, uint64(0x4010a0), cmd.Addr)
}

func TestParse_ShorthandSetByName(t *testing.T) {
	cmd := Parse("b main")
	require.Equal(t, SetBreakpointByName, cmd.Kind)
	require.Equal(t, "main", cmd.Name)
}

func TestParse_ShorthandDelete(t *testing.T) {
	cmd := Parse("rb 0x4010a0")
	require.Equal(t, DeleteBreakpoint, cmd.Kind)
	require.Equal(t, uint64(0x4010a0), cmd.Addr)

	require.Equal(t, Unknown, Parse("rb main").Kind)
	require.Equal(t, Unknown, Parse("b").Kind)
	require.Equal(t, Unknown, Parse("rb").Kind)
}
