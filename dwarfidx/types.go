package dwarfidx

import "debug/dwarf"

// Type is the closed union of type forms this debugger understands: base
// types, pointers, and const-qualified types. It mirrors the three DWARF tag
// kinds this package indexes; anything else collapses to Void.
type Type interface {
	// Offset is this type's DIE offset, used as its identity/map key.
	Offset() dwarf.Offset
	// Size is the type's DW_AT_byte_size.
	Size() uint64
	// String renders a short label: a base type's name, or "<pointer>" /
	// "<const>" for the indirections. Index.FormatTypeRef renders the full
	// C-declaration form.
	String() string
}

// BaseType is a DW_TAG_base_type: a primitive with a name, signedness, and
// float-ness (e.g. "int", "unsigned char", "double").
type BaseType struct {
	RefAddr  dwarf.Offset
	Name     string
	IsSigned bool
	IsFloat  bool
	ByteSize uint64
}

func (t *BaseType) Offset() dwarf.Offset { return t.RefAddr }
func (t *BaseType) Size() uint64         { return t.ByteSize }
func (t *BaseType) String() string       { return t.Name }

// PointerType is a DW_TAG_pointer_type: ByteSize is the pointer's own size
// (typically 8), To is the pointee's DIE offset.
type PointerType struct {
	RefAddr  dwarf.Offset
	ByteSize uint64
	To       dwarf.Offset
}

func (t *PointerType) Offset() dwarf.Offset { return t.RefAddr }
func (t *PointerType) Size() uint64         { return t.ByteSize }
func (t *PointerType) String() string       { return "<pointer>" }

// ConstType is a DW_TAG_const_type qualifier wrapping another type.
type ConstType struct {
	RefAddr  dwarf.Offset
	ByteSize uint64
	To       dwarf.Offset
}

func (t *ConstType) Offset() dwarf.Offset { return t.RefAddr }
func (t *ConstType) Size() uint64         { return t.ByteSize }
func (t *ConstType) String() string       { return "<const>" }

// VoidOffset is the reserved offset used when a DIE has no DW_AT_type
// (e.g. a function returning void).
const VoidOffset dwarf.Offset = 0

// Parameter is a DW_TAG_formal_parameter belonging to a Function: a named,
// typed value located at FrameBase+FBRegOffset.
type Parameter struct {
	Name        string
	TypeRef     dwarf.Offset
	FBRegOffset int64
}

// Variable is a DW_TAG_variable local to a Function, same location scheme as
// Parameter.
type Variable struct {
	Name        string
	TypeRef     dwarf.Offset
	FBRegOffset int64
}

// AddrRange is a contiguous [Low, High] instruction range (inclusive high,
// per DWARF 2.17.2) owned by a Function.
type AddrRange struct {
	Low, High uint64
}

// Contains reports whether a module-relative PC falls in this range.
func (r AddrRange) Contains(pc uint64) bool {
	return pc >= r.Low && pc <= r.High
}

// Function is a DW_TAG_subprogram: its return type, parameters (in
// declaration order), locals (in declaration order), and the address ranges
// its machine code occupies.
type Function struct {
	Name             string
	ReturnTypeRef    dwarf.Offset
	FormalParameters []Parameter
	LocalVariables   []Variable
	AddressRanges    []AddrRange
}

// ContainsPC reports whether the given module-relative PC belongs to this
// function.
func (f *Function) ContainsPC(pc uint64) bool {
	for _, r := range f.AddressRanges {
		if r.Contains(pc) {
			return true
		}
	}
	return false
}

// Location is the resolved file/line/function for a module-relative address.
type Location struct {
	File     string
	Line     int
	Function string
}
