package form

import (
	"go.trai.ch/knob/internal/core/domain"
)

// Outcome is what a finished workflow run hands back to the form.
type Outcome struct {
	Kind domain.StepKind
	// Entries is the entry list after the run. Nil keeps the current list.
	Entries   domain.Entries
	Errors    []string
	Output    string
	Converged bool
	ExitCode  int
}

// BeginRun marks the session busy and clears the errors of the previous run.
func BeginRun(s Session) Session {
	s.Busy = true
	s.Errors = nil
	s.Progress = 0
	s.ProgressMsg = ""
	return s
}

// ApplyOutcome folds a finished run into the entry list and session.
//
// The convergence flag is recomputed from the run. A run with errors
// switches to the error page. A successful generate requests the form to quit.
func ApplyOutcome(entries domain.Entries, s Session, o Outcome) (domain.Entries, Session, Effect) {
	s.Busy = false
	if o.Entries != nil {
		entries = o.Entries
	}
	s.Errors = append(s.Errors, o.Errors...)
	s.Output = o.Output

	switch o.Kind {
	case domain.StepConfigure:
		s.OkToGenerate = o.Converged
	case domain.StepGenerate:
		s.OkToGenerate = false
	}

	s = s.Relayout(entries)
	if len(s.Errors) > 0 {
		s.Mode = ShowingErrors
		s.Scroll = 0
		return entries, s, Effect{}
	}
	if o.Kind == domain.StepGenerate && o.ExitCode == domain.ExitOK {
		return entries, s, Effect{Kind: EffectQuit}
	}
	return entries, s, Effect{}
}

// Reload replaces the entry list after the cache changed outside the form.
// Entries already in the form keep their New flag; entries added outside
// the form are not marked new.
func Reload(current, reloaded domain.Entries, s Session) (domain.Entries, Session) {
	merged, _, _ := domain.Reconcile(current, reloaded)
	for _, e := range merged {
		if current.Lookup(e.Name) == nil {
			e.New = false
		}
	}
	s.OkToGenerate = false
	return merged, s.Relayout(merged)
}
