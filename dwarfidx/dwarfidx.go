// Package dwarfidx builds an in-memory index of an ELF executable's DWARF
// debug information: types, functions, their parameters and locals, and
// addr-to-source-location resolution. The traversal is a three-ordered-pass
// walk over the DIE tree (base types, then pointer/const types, then
// subprograms with their children), the same order the debugger this repo
// grew out of used, so that a DW_AT_type reference is always resolvable by
// the time anything asks for it.
package dwarfidx

import (
	"debug/dwarf"
	"debug/elf"
	"fmt"

	"github.com/go-delve/delve/pkg/dwarf/op"
	"github.com/rs/zerolog"
)

// DWARF encoding constants for DW_AT_encoding (debug/dwarf does not export
// these; they are fixed by the DWARF standard, DW_ATE_* family).
const (
	dwAteAddress     = 0x1
	dwAteSigned      = 0x5
	dwAteSignedChar  = 0x6
	dwAteUnsigned    = 0x7
	dwAteUnsignedChr = 0x8
	dwAteFloat       = 0x4
	dwAteSignedFixed = 0xd
)

// Index is the immutable, fully built DWARF index for one executable.
type Index struct {
	path      string
	data      *dwarf.Data
	elfFile   *elf.File
	types     map[dwarf.Offset]Type
	functions []*Function
	log       zerolog.Logger
}

// New opens the ELF file at path, loads its DWARF section, and runs the
// three-pass collection described in the package doc.
func New(path string, log zerolog.Logger) (*Index, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, &DwarfParseError{Section: "elf", Cause: err}
	}

	data, err := f.DWARF()
	if err != nil {
		f.Close()
		return nil, &DwarfParseError{Section: "debug_info", Cause: err}
	}

	idx := &Index{
		path:    path,
		data:    data,
		elfFile: f,
		types:   make(map[dwarf.Offset]Type),
		log:     log.With().Str("component", "dwarfidx").Logger(),
	}

	if err := idx.collect(); err != nil {
		f.Close()
		return nil, err
	}

	return idx, nil
}

// Close releases the underlying ELF file handle.
func (idx *Index) Close() error {
	return idx.elfFile.Close()
}

// DwarfParseError reports a fatal failure to parse a required ELF/DWARF
// section.
type DwarfParseError struct {
	Section string
	Cause   error
}

func (e *DwarfParseError) Error() string {
	return fmt.Sprintf("dwarfidx: failed to parse %s: %v", e.Section, e.Cause)
}

func (e *DwarfParseError) Unwrap() error { return e.Cause }

func (idx *Index) collect() error {
	// Pass 1: base types.
	r := idx.data.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return &DwarfParseError{Section: "debug_info (pass 1)", Cause: err}
		}
		if entry == nil {
			break
		}
		if entry.Tag == dwarf.TagBaseType {
			t := idx.processBaseType(entry)
			idx.types[t.RefAddr] = t
		}
	}

	// Pass 2: pointer and const types.
	r = idx.data.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return &DwarfParseError{Section: "debug_info (pass 2)", Cause: err}
		}
		if entry == nil {
			break
		}
		switch entry.Tag {
		case dwarf.TagPointerType:
			t := idx.processPointerType(entry)
			idx.types[t.RefAddr] = t
		case dwarf.TagConstType:
			t := idx.processConstType(entry)
			idx.types[t.RefAddr] = t
		}
	}

	// Pass 3: subprograms and their formal parameters / variables. Every
	// parameter or local encountered is attached to the most recently
	// opened function, matching pre-order DFS over a subprogram's children.
	r = idx.data.Reader()
	var current *Function
	for {
		entry, err := r.Next()
		if err != nil {
			return &DwarfParseError{Section: "debug_info (pass 3)", Cause: err}
		}
		if entry == nil {
			break
		}
		switch entry.Tag {
		case dwarf.TagSubprogram:
			fn := idx.processSubprogram(entry)
			idx.functions = append(idx.functions, fn)
			current = fn
		case dwarf.TagFormalParameter:
			if current != nil {
				current.FormalParameters = append(current.FormalParameters, idx.processFormalParameter(entry))
			}
		case dwarf.TagVariable:
			if current != nil {
				current.LocalVariables = append(current.LocalVariables, idx.processVariable(entry))
			}
		}
	}

	return nil
}

func attrString(entry *dwarf.Entry, at dwarf.Attr) string {
	v := entry.Val(at)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func attrUint(entry *dwarf.Entry, at dwarf.Attr) uint64 {
	v := entry.Val(at)
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

func attrTypeRef(entry *dwarf.Entry) dwarf.Offset {
	v := entry.Val(dwarf.AttrType)
	if v == nil {
		return VoidOffset
	}
	off, _ := v.(dwarf.Offset)
	return off
}

func (idx *Index) processBaseType(entry *dwarf.Entry) *BaseType {
	encoding := attrUint(entry, dwarf.AttrEncoding)
	return &BaseType{
		RefAddr:  entry.Offset,
		Name:     attrString(entry, dwarf.AttrName),
		ByteSize: attrUint(entry, dwarf.AttrByteSize),
		IsFloat:  encoding == dwAteFloat,
		IsSigned: encoding == dwAteSigned || encoding == dwAteSignedChar || encoding == dwAteSignedFixed,
	}
}

func (idx *Index) processPointerType(entry *dwarf.Entry) *PointerType {
	return &PointerType{
		RefAddr:  entry.Offset,
		ByteSize: attrUint(entry, dwarf.AttrByteSize),
		To:       attrTypeRef(entry),
	}
}

func (idx *Index) processConstType(entry *dwarf.Entry) *ConstType {
	return &ConstType{
		RefAddr:  entry.Offset,
		ByteSize: attrUint(entry, dwarf.AttrByteSize),
		To:       attrTypeRef(entry),
	}
}

// processSubprogram decodes low_pc/high_pc per DWARF 2.17.2: when
// DW_AT_high_pc is class constant it is an offset from low_pc (so
// high = low + offset - 1, the last instruction byte); when it is class
// address it is already absolute.
func (idx *Index) processSubprogram(entry *dwarf.Entry) *Function {
	fn := &Function{
		Name:          attrString(entry, dwarf.AttrName),
		ReturnTypeRef: attrTypeRef(entry),
	}

	lowVal := entry.Val(dwarf.AttrLowpc)
	low, _ := lowVal.(uint64)

	var high uint64
	switch h := entry.Val(dwarf.AttrHighpc).(type) {
	case uint64:
		high = h
	case int64:
		high = low + uint64(h) - 1
	}

	if low != 0 || high != 0 {
		fn.AddressRanges = []AddrRange{{Low: low, High: high}}
	}

	return fn
}

func (idx *Index) fbregOffset(entry *dwarf.Entry) int64 {
	loc, ok := entry.Val(dwarf.AttrLocation).([]byte)
	if !ok || len(loc) == 0 {
		return 0
	}
	// FrameBase: 0 makes ExecuteStackProgram return the bare DW_OP_fbreg
	// operand for a location expression that consists of nothing but
	// DW_OP_fbreg <offset>, which is the only form this debugger supports.
	offset, _, err := op.ExecuteStackProgram(op.DwarfRegisters{FrameBase: 0}, loc, 8, nil)
	if err != nil {
		idx.log.Warn().Err(err).Msg("unsupported DW_AT_location expression, defaulting offset to 0")
		return 0
	}
	return offset
}

func (idx *Index) processFormalParameter(entry *dwarf.Entry) Parameter {
	return Parameter{
		Name:        attrString(entry, dwarf.AttrName),
		TypeRef:     attrTypeRef(entry),
		FBRegOffset: idx.fbregOffset(entry),
	}
}

func (idx *Index) processVariable(entry *dwarf.Entry) Variable {
	return Variable{
		Name:        attrString(entry, dwarf.AttrName),
		TypeRef:     attrTypeRef(entry),
		FBRegOffset: idx.fbregOffset(entry),
	}
}

// FunctionByName returns the first function with the given name.
func (idx *Index) FunctionByName(name string) (*Function, bool) {
	for _, fn := range idx.functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// FunctionAt returns the function whose address range contains the given
// module-relative PC, the primary (range-based) lookup used by backtraces.
func (idx *Index) FunctionAt(pc uint64) (*Function, bool) {
	for _, fn := range idx.functions {
		if fn.ContainsPC(pc) {
			return fn, true
		}
	}
	return nil, false
}

// Functions returns every indexed function, in DIE-encounter order.
func (idx *Index) Functions() []*Function {
	return idx.functions
}

// Type resolves a DIE offset to its indexed Type.
func (idx *Index) Type(ref dwarf.Offset) (Type, bool) {
	t, ok := idx.types[ref]
	return t, ok
}

// TypeByteSize resolves a DIE offset to its byte size.
func (idx *Index) TypeByteSize(ref dwarf.Offset) (uint64, bool) {
	t, ok := idx.types[ref]
	if !ok {
		return 0, false
	}
	return t.Size(), true
}
