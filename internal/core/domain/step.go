package domain

import (
	"fmt"
	"strings"
	"time"
)

// StepKind names one of the two workflow phases.
type StepKind string

const (
	// StepConfigure runs the configuration step.
	StepConfigure StepKind = "Configure"
	// StepGenerate runs the generation step.
	StepGenerate StepKind = "Generate"
)

// Exit codes reported at the process boundary.
const (
	ExitOK      = 0
	ExitIOError = 1
)

// Step describes how to invoke one external workflow phase.
type Step struct {
	Kind        StepKind
	Command     []string
	WorkingDir  string
	Environment map[string]string
}

// CommandLine renders the command for display and reports.
func (s Step) CommandLine() string {
	return strings.Join(s.Command, " ")
}

// StepResult is what an external step produced.
type StepResult struct {
	Status int
	Output string
	Start  time.Time
	End    time.Time
}

// StepFailure carries a nonzero exit status up to the process boundary.
type StepFailure struct {
	Kind   StepKind
	Status int
	Err    error
}

// Error implements error.
func (f *StepFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s exited with status %d: %v", strings.ToLower(string(f.Kind)), f.Status, f.Err)
	}
	return fmt.Sprintf("%s exited with status %d", strings.ToLower(string(f.Kind)), f.Status)
}

// Unwrap returns the underlying cause.
func (f *StepFailure) Unwrap() error {
	return f.Err
}

// ExitCode returns the status to exit the process with.
func (f *StepFailure) ExitCode() int {
	return f.Status
}
