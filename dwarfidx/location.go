package dwarfidx

import (
	"bufio"
	"debug/dwarf"
	"fmt"
	"io"
	"os"
)

// LocationAt resolves a module-relative address to the innermost
// file:line:function, the addr2line-equivalent lookup this debugger needs
// for breakpoint descriptions and backtraces. The function name comes from
// the PC-range lookup (see FunctionAt); file and line come from the first
// compilation unit whose line table covers the address. When no line table
// covers it but a function does, only Function is filled in.
func (idx *Index) LocationAt(pc uint64) (Location, bool) {
	fnName := ""
	if fn, ok := idx.FunctionAt(pc); ok {
		fnName = fn.Name
	}

	r := idx.data.Reader()
	for {
		entry, err := r.Next()
		if err != nil || entry == nil {
			break
		}
		if entry.Tag != dwarf.TagCompileUnit {
			continue
		}

		lr, err := idx.data.LineReader(entry)
		if err != nil || lr == nil {
			continue
		}

		var line dwarf.LineEntry
		if err := lr.SeekPC(pc, &line); err != nil {
			continue
		}

		file := ""
		if line.File != nil {
			file = line.File.Name
		}
		return Location{File: file, Line: line.Line, Function: fnName}, true
	}

	if fnName != "" {
		return Location{Function: fnName}, true
	}
	return Location{}, false
}

// PrintCodeAt writes the resolved source line for a module-relative address
// to w, along with ctxLines of surrounding context when the source file can
// be opened locally. Falls back to just the location line when the source
// isn't available (e.g. the binary was built elsewhere).
func (idx *Index) PrintCodeAt(w io.Writer, pc uint64, ctxLines int) error {
	loc, ok := idx.LocationAt(pc)
	if !ok {
		return fmt.Errorf("dwarfidx: no line information for address 0x%x", pc)
	}

	fmt.Fprintf(w, "%s:%d (%s)\n", loc.File, loc.Line, loc.Function)

	f, err := os.Open(loc.File)
	if err != nil {
		return nil
	}
	defer f.Close()

	start := loc.Line - ctxLines
	if start < 1 {
		start = 1
	}
	end := loc.Line + ctxLines

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo < start {
			continue
		}
		if lineNo > end {
			break
		}
		marker := "   "
		if lineNo == loc.Line {
			marker = "-> "
		}
		fmt.Fprintf(w, "%s%4d\t%s\n", marker, lineNo, scanner.Text())
	}

	return nil
}
