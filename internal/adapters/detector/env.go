// Package detector inspects the process environment to decide whether the
// interactive form can run.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Environment is a snapshot of the facts mode detection depends on.
type Environment struct {
	StdinTTY  bool
	StdoutTTY bool
	CI        bool
}

// Detect reads the environment of the current process.
func Detect() Environment {
	return Environment{
		StdinTTY:  term.IsTerminal(int(os.Stdin.Fd())),
		StdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		CI:        isCI(os.Getenv("CI")),
	}
}

func isCI(v string) bool {
	return v == "true" || v == "1"
}

// Interactive reports whether the editing form can run: it needs a terminal
// on both ends and nobody at the keyboard is assumed under CI.
func (e Environment) Interactive() bool {
	return e.StdinTTY && e.StdoutTTY && !e.CI
}
