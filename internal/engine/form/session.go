// Package form implements the input dispatcher of the cache editor as a pure
// state machine over an entry list and a session.
package form

import (
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/engine/layout"
	"go.trai.ch/knob/internal/engine/search"
)

// Mode is the state of the dispatcher.
type Mode uint8

const (
	// Navigating moves the cursor and triggers actions.
	Navigating Mode = iota
	// Editing changes the value of the selected entry.
	Editing
	// Searching types an incremental search query.
	Searching
	// ShowingHelp shows the help page.
	ShowingHelp
	// ShowingErrors shows the errors of the last run.
	ShowingErrors
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Navigating:
		return "Navigating"
	case Editing:
		return "Editing"
	case Searching:
		return "Searching"
	case ShowingHelp:
		return "ShowingHelp"
	case ShowingErrors:
		return "ShowingErrors"
	default:
		return "Unknown"
	}
}

// Session is the UI state of one interactive run.
// It is a value: every operation returns an updated copy.
type Session struct {
	Pos      layout.Position
	Mode     Mode
	Advanced bool
	Search   search.State
	// EditBuffer holds the pending value while Editing.
	EditBuffer string
	// Errors collected by the last workflow run.
	Errors []string
	// Output is the captured output of the last workflow run.
	Output string
	// OkToGenerate is set after a configure pass converged.
	OkToGenerate bool
	Progress     float64
	ProgressMsg  string
	// Busy is set while a workflow run is in flight.
	Busy bool
	// Scroll is the first line shown on the help and error pages.
	Scroll   int
	HelpText string
	Viewport layout.Viewport

	Layout    *layout.Layout
	LayoutErr error
}

// NewSession creates a session with the constant help text and initial viewport.
func NewSession(helpText string, vp layout.Viewport) Session {
	return Session{
		Mode:     Navigating,
		HelpText: helpText,
		Viewport: vp,
	}
}

// Filter returns the visibility filter for the current mode flag.
func (s Session) Filter() layout.Filter {
	if s.Advanced {
		return layout.Advanced
	}
	return layout.Normal
}

// Relayout recomputes the layout for entries and keeps the cursor on an existing row.
func (s Session) Relayout(entries domain.Entries) Session {
	s.Layout, s.LayoutErr = layout.Compute(entries, s.Filter(), s.Viewport)
	if s.Layout != nil {
		s.Pos = s.Layout.Clamp(s.Pos)
	}
	return s
}

// Resize applies a new viewport.
func (s Session) Resize(entries domain.Entries, vp layout.Viewport) Session {
	s.Viewport = vp
	return s.Relayout(entries)
}

// Cursor returns the cursor position, following the search while it is active.
func (s Session) Cursor() layout.Position {
	if s.Mode == Searching {
		return s.Search.Position()
	}
	return s.Pos
}

// Selected returns the index of the entry under the cursor.
func (s Session) Selected() (int, bool) {
	if s.Layout == nil {
		return -1, false
	}
	return s.Layout.EntryAt(s.Cursor())
}

// SelectedEntry returns the entry under the cursor, or nil.
func (s Session) SelectedEntry(entries domain.Entries) *domain.Entry {
	idx, ok := s.Selected()
	if !ok || idx >= len(entries) {
		return nil
	}
	return entries[idx]
}

// SetProgress records a progress report from the running step.
// A negative fraction keeps the previous fraction.
func (s Session) SetProgress(fraction float64, message string) Session {
	if fraction >= 0 {
		s.Progress = fraction
	}
	if message != "" {
		s.ProgressMsg = message
	}
	return s
}
