package tracee

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignAddrToWord(t *testing.T) {
	require.Equal(t, uint64(0x1000), alignAddrToWord(0x1000))
	require.Equal(t, uint64(0x1000), alignAddrToWord(0x1003))
	require.Equal(t, uint64(0x1000), alignAddrToWord(0x1007))
	require.Equal(t, uint64(0x1008), alignAddrToWord(0x1008))
}

func TestFrame_CFA(t *testing.T) {
	fr := Frame{RBP: 0x7ffe0000}
	require.Equal(t, uint64(0x7ffe0010), fr.CFA())
}

func TestListBreakpoints_SortedByAddress(t *testing.T) {
	tr := &Tracee{Breakpoints: map[uint64]*Breakpoint{
		0x400: {Address: 0x400, Idx: 1},
		0x100: {Address: 0x100, Idx: 0},
		0x900: {Address: 0x900, Idx: 2},
	}}

	list := tr.ListBreakpoints()
	require.Len(t, list, 3)
	require.Equal(t, uint64(0x100), list[0].Address)
	require.Equal(t, uint64(0x400), list[1].Address)
	require.Equal(t, uint64(0x900), list[2].Address)
}

func TestBreakpoint_Describe_NoIndex(t *testing.T) {
	bp := &Breakpoint{Address: 0x4010, Idx: 3}
	require.Equal(t, "Breakpoint 3 at 0x4010", bp.Describe(nil, 0))
}
