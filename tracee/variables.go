package tracee

import (
	"debug/dwarf"
	"fmt"
)

// describeVar reads the variable at cfa+fbregOffset and renders
// "name = value" (or "name = <unavailable>"/"name = <unreadable>" when its
// size/bytes can't be obtained), formatted per its resolved DWARF type.
func (t *Tracee) describeVar(name string, typeRef dwarf.Offset, cfa uint64, fbregOffset int64) string {
	size, ok := t.DWARF.TypeByteSize(typeRef)
	if !ok || size == 0 || size > 8 {
		return fmt.Sprintf("%s = <unavailable>", name)
	}

	addr := uint64(int64(cfa) + fbregOffset)
	data, err := t.ReadBytes(addr, int(size))
	if err != nil {
		return fmt.Sprintf("%s = <unreadable>", name)
	}

	return fmt.Sprintf("%s = %s", name, formatValue(t.DWARF, typeRef, data))
}

// VariableInFrame looks up a parameter or local named name within fr's
// function and returns its formatted "name = value" string. This backs the
// REPL's "get <name>" command: a bare name lookup, not a source-level
// expression evaluator.
func (t *Tracee) VariableInFrame(fr Frame, name string) (string, bool) {
	if fr.Func == nil {
		return "", false
	}
	cfa := fr.CFA()

	for _, p := range fr.Func.FormalParameters {
		if p.Name == name {
			return t.describeVar(p.Name, p.TypeRef, cfa, p.FBRegOffset), true
		}
	}
	for _, v := range fr.Func.LocalVariables {
		if v.Name == name {
			return t.describeVar(v.Name, v.TypeRef, cfa, v.FBRegOffset), true
		}
	}
	return "", false
}
