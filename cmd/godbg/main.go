// Command godbg is an interactive source-level debugger for native ELF
// executables on Linux/x86-64: ptrace process control, INT3 software
// breakpoints, DWARF-driven variable inspection, and frame-pointer stack
// unwinding, wrapped in a readline REPL.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nullptrace/godbg/debugger"
	"github.com/nullptrace/godbg/internal/dbglog"
	"github.com/nullptrace/godbg/repl"
	"github.com/spf13/cobra"
)

var logLevel string

func main() {
	root := &cobra.Command{
		Use:   "godbg [executable]",
		Short: "Interactive source-level debugger for ELF/x86-64 executables",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	root.Flags().StringVar(&logLevel, "log-level", "warn", "log verbosity: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	target := "a.out"
	if len(args) == 1 {
		target = args[0]
	}

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("cannot open target executable %q: %w", target, err)
	}

	log := dbglog.New(logLevel)

	session := debugger.New(target, os.Stdout, log)

	line, err := repl.New()
	if err != nil {
		return fmt.Errorf("initialize REPL: %w", err)
	}
	defer line.Close()

	color.New(color.FgHiBlack).Fprintf(os.Stdout, "godbg: debugging %s (type 'start' or 'cont' to begin)\n", target)

	for {
		cmd, err := line.ReadCommand()
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		if err := session.Dispatch(cmd); err != nil {
			if errors.Is(err, debugger.ErrExitRequested) {
				return nil
			}
			return err
		}
	}
}
