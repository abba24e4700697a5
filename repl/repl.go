package repl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// REPL wraps chzyer/readline for prompting and persistent command history,
// replacing this debugger's Rust ancestor's main.go-embedded goreadline
// wrapper with the real published line-editing library it stood in for.
type REPL struct {
	instance *readline.Instance
}

// New opens a readline instance with the "dbg> " prompt and history
// persisted to ~/.godbg_history.
func New() (*REPL, error) {
	historyFile := historyPath()

	instance, err := readline.NewEx(&readline.Config{
		Prompt:          "dbg> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("repl: init readline: %w", err)
	}

	return &REPL{instance: instance}, nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".godbg_history"
	}
	return filepath.Join(home, ".godbg_history")
}

// ReadCommand blocks for one line of input and parses it. io.EOF (Ctrl-D) is
// surfaced as an Exit command so callers don't need special-case handling.
func (r *REPL) ReadCommand() (Command, error) {
	line, err := r.instance.Readline()
	if err == readline.ErrInterrupt {
		return Command{Kind: Unknown}, nil
	}
	if err != nil {
		return Command{Kind: Exit}, nil
	}
	return Parse(line), nil
}

// Close flushes history and releases the terminal.
func (r *REPL) Close() error {
	return r.instance.Close()
}
