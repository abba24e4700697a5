package dwarfidx

import (
	"debug/dwarf"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestIndex() *Index {
	return &Index{
		types: make(map[dwarf.Offset]Type),
		log:   zerolog.Nop(),
	}
}

func TestFormatTypeRef_PointerChain(t *testing.T) {
	idx := newTestIndex()
	idx.types[1] = &BaseType{RefAddr: 1, Name: "int", IsSigned: true, ByteSize: 4}
	idx.types[2] = &ConstType{RefAddr: 2, To: 1, ByteSize: 4}
	idx.types[3] = &PointerType{RefAddr: 3, To: 2, ByteSize: 8}

	require.Equal(t, "int", idx.FormatTypeRef(1))
	require.Equal(t, "const int", idx.FormatTypeRef(2))
	require.Equal(t, "const int*", idx.FormatTypeRef(3))
}

func TestFormatTypeRef_Void(t *testing.T) {
	idx := newTestIndex()
	require.Equal(t, "void", idx.FormatTypeRef(VoidOffset))
	require.Equal(t, "void", idx.FormatTypeRef(dwarf.Offset(999)))
}

func TestFormatFunctionSignature(t *testing.T) {
	idx := newTestIndex()
	idx.types[1] = &BaseType{RefAddr: 1, Name: "int", IsSigned: true, ByteSize: 4}
	fn := &Function{
		Name:          "add",
		ReturnTypeRef: 1,
		FormalParameters: []Parameter{
			{Name: "a", TypeRef: 1},
			{Name: "b", TypeRef: 1},
		},
	}
	require.Equal(t, "int add(int a, int b)", idx.FormatFunctionSignature(fn))
}

func TestFunctionAt_RangeLookup(t *testing.T) {
	idx := newTestIndex()
	idx.functions = []*Function{
		{Name: "main", AddressRanges: []AddrRange{{Low: 0x100, High: 0x1ff}}},
		{Name: "helper", AddressRanges: []AddrRange{{Low: 0x200, High: 0x2ff}}},
	}

	fn, ok := idx.FunctionAt(0x250)
	require.True(t, ok)
	require.Equal(t, "helper", fn.Name)

	_, ok = idx.FunctionAt(0x300)
	require.False(t, ok)
}

func TestFunctionByName(t *testing.T) {
	idx := newTestIndex()
	idx.functions = []*Function{{Name: "main"}, {Name: "helper"}}

	fn, ok := idx.FunctionByName("helper")
	require.True(t, ok)
	require.Equal(t, "helper", fn.Name)

	_, ok = idx.FunctionByName("missing")
	require.False(t, ok)
}

func TestAddrRange_Contains(t *testing.T) {
	r := AddrRange{Low: 0x10, High: 0x20}
	require.True(t, r.Contains(0x10))
	require.True(t, r.Contains(0x20))
	require.False(t, r.Contains(0x21))
	require.False(t, r.Contains(0xf))
}
