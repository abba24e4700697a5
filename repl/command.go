// Package repl parses REPL input lines into Commands and drives a readline
// front-end with history, the Go-native replacement for this debugger's
// Rust ancestor's replcommand.rs grammar and its main.go's goreadline loop.
package repl

import (
	"strconv"
	"strings"
)

// Kind identifies which debugger operation a Command requests.
type Kind int

const (
	Unknown Kind = iota
	Start
	Continue
	Exit
	SetBreakpoint       // Addr is set
	SetBreakpointByName // Name is set
	DeleteBreakpoint    // Addr is set
	ListBreakpoints
	Registers
	SingleStep
	Backtrace
	Frame // FrameIndex is set
	Get   // Name is set
)

// Command is one parsed REPL line.
type Command struct {
	Kind       Kind
	Addr       uint64
	Name       string
	FrameIndex int
	Raw        string
}

// Parse tokenizes line and returns the Command it names. An empty line or an
// unrecognized verb yields Kind == Unknown, which the caller (Session)
// reports as an unrecognized command.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: Unknown, Raw: line}
	}

	switch fields[0] {
	case "cont", "c", "r":
		return Command{Kind: Continue, Raw: line}
	case "start":
		return Command{Kind: Start, Raw: line}
	case "exit", "e", "quit", "q":
		return Command{Kind: Exit, Raw: line}
	case "regs":
		return Command{Kind: Registers, Raw: line}
	case "s", "step":
		return Command{Kind: SingleStep, Raw: line}
	case "lsb":
		return Command{Kind: ListBreakpoints, Raw: line}
	case "back", "bt":
		return Command{Kind: Backtrace, Raw: line}
	case "frame", "f":
		idx := 0
		if len(fields) >= 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				idx = n
			}
		}
		return Command{Kind: Frame, FrameIndex: idx, Raw: line}
	case "get":
		if len(fields) < 2 {
			return Command{Kind: Unknown, Raw: line}
		}
		return Command{Kind: Get, Name: fields[1], Raw: line}
	case "bp":
		return parseBreakpointCommand(fields, line)
	case "b":
		if len(fields) < 2 {
			return Command{Kind: Unknown, Raw: line}
		}
		if addr, ok := parseAddress(fields[1]); ok {
			return Command{Kind: SetBreakpoint, Addr: addr, Raw: line}
		}
		return Command{Kind: SetBreakpointByName, Name: fields[1], Raw: line}
	case "rb":
		if len(fields) < 2 {
			return Command{Kind: Unknown, Raw: line}
		}
		if addr, ok := parseAddress(fields[1]); ok {
			return Command{Kind: DeleteBreakpoint, Addr: addr, Raw: line}
		}
		return Command{Kind: Unknown, Raw: line}
	default:
		return Command{Kind: Unknown, Raw: line}
	}
}

func parseBreakpointCommand(fields []string, line string) Command {
	if len(fields) < 3 {
		return Command{Kind: Unknown, Raw: line}
	}

	target := fields[2]
	switch fields[1] {
	case "set":
		if addr, ok := parseAddress(target); ok {
			return Command{Kind: SetBreakpoint, Addr: addr, Raw: line}
		}
		return Command{Kind: SetBreakpointByName, Name: target, Raw: line}
	case "del":
		if addr, ok := parseAddress(target); ok {
			return Command{Kind: DeleteBreakpoint, Addr: addr, Raw: line}
		}
		return Command{Kind: Unknown, Raw: line}
	default:
		return Command{Kind: Unknown, Raw: line}
	}
}

// parseAddress accepts a "0x"-prefixed hexadecimal address, matching
// replcommand.rs's parse_address; anything else (e.g. a function name) is
// left for the caller to treat as a name.
func parseAddress(s string) (uint64, bool) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, false
	}
	addr, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, false
	}
	return addr, true
}
