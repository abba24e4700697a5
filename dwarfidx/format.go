package dwarfidx

import (
	"debug/dwarf"
	"fmt"
	"strings"
)

// FormatTypeRef renders a type the way a C declaration would, walking the
// Pointer/Const chain down to its Base, the same recursive shape as this
// package's Rust ancestor's print_type. An unresolvable or void reference
// renders as "void".
func (idx *Index) FormatTypeRef(ref dwarf.Offset) string {
	if ref == VoidOffset {
		return "void"
	}
	t, ok := idx.types[ref]
	if !ok {
		return "void"
	}
	switch v := t.(type) {
	case *BaseType:
		return v.Name
	case *PointerType:
		return idx.FormatTypeRef(v.To) + "*"
	case *ConstType:
		return "const " + idx.FormatTypeRef(v.To)
	default:
		return "void"
	}
}

// FormatFunctionSignature renders "returnType name(type1 p1, type2 p2)",
// the function-signature pretty-printer this package's Rust ancestor
// implemented as print_function.
func (idx *Index) FormatFunctionSignature(fn *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", idx.FormatTypeRef(fn.ReturnTypeRef), fn.Name)
	for i, p := range fn.FormalParameters {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", idx.FormatTypeRef(p.TypeRef), p.Name)
	}
	b.WriteString(")")
	return b.String()
}
