package tracee

import (
	"debug/dwarf"
	"encoding/binary"
	"fmt"

	"github.com/nullptrace/godbg/dwarfidx"
)

// formatValue renders raw little-endian bytes per the variable's resolved
// DWARF type (base types, pointers, const-qualified types), always as the
// value masked to its byte size in fixed-width hex ("0x%016x"), the
// documented output contract every "name = value" line follows; a float is
// shown as its bit pattern. Floats of a size other than 4 or 8 bytes and
// unsupported or unresolvable types render as a raw hex dump.
func formatValue(idx *dwarfidx.Index, typeRef dwarf.Offset, data []byte) string {
	t, ok := idx.Type(typeRef)
	if !ok {
		return hexDump(data)
	}

	switch v := t.(type) {
	case *dwarfidx.BaseType:
		return formatBase(v, data)
	case *dwarfidx.PointerType:
		return formatPointer(data)
	case *dwarfidx.ConstType:
		return formatValue(idx, v.To, data)
	default:
		return hexDump(data)
	}
}

func formatBase(t *dwarfidx.BaseType, data []byte) string {
	if t.IsFloat && len(data) != 4 && len(data) != 8 {
		return hexDump(data)
	}

	if t.IsSigned {
		v := uint64(signedFromBytes(data))
		if n := len(data); n < 8 {
			v &= uint64(1)<<(8*uint(n)) - 1
		}
		return fmt.Sprintf("0x%016x", v)
	}
	return fmt.Sprintf("0x%016x", unsignedFromBytes(data))
}

func formatPointer(data []byte) string {
	return fmt.Sprintf("0x%016x", unsignedFromBytes(data))
}

func unsignedFromBytes(data []byte) uint64 {
	var buf [8]byte
	copy(buf[:], data)
	return binary.LittleEndian.Uint64(buf[:])
}

func signedFromBytes(data []byte) int64 {
	switch len(data) {
	case 1:
		return int64(int8(data[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(data)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(data)))
	default:
		return int64(unsignedFromBytes(data))
	}
}

func hexDump(data []byte) string {
	return fmt.Sprintf("% x", data)
}
