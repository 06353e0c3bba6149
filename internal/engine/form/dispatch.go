package form

import (
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/engine/layout"
	"go.trai.ch/knob/internal/engine/search"
)

// Dispatch applies one input to the entry list and session.
// It never performs I/O: workflow runs, persistence and quitting are returned as an Effect.
// The input entry list is never modified; edits produce a new list.
func Dispatch(entries domain.Entries, s Session, in Input) (domain.Entries, Session, Effect) {
	if s.Busy {
		if in.Key == KeyQuit && s.Mode == Navigating {
			return entries, s, Effect{Kind: EffectQuit}
		}
		return entries, s, Effect{}
	}

	switch s.Mode {
	case Editing:
		return dispatchEditing(entries, s, in)
	case Searching:
		return entries, dispatchSearching(entries, s, in), Effect{}
	case ShowingHelp:
		return entries, dispatchPage(s, in, KeyHelp), Effect{}
	case ShowingErrors:
		return entries, dispatchPage(s, in, KeyErrors), Effect{}
	default:
		return dispatchNavigating(entries, s, in)
	}
}

func dispatchNavigating(entries domain.Entries, s Session, in Input) (domain.Entries, Session, Effect) {
	switch in.Key {
	case KeyQuit:
		return entries, s, Effect{Kind: EffectQuit}
	case KeyHelp:
		s.Mode = ShowingHelp
		s.Scroll = 0
		return entries, s, Effect{}
	case KeyErrors:
		s.Mode = ShowingErrors
		s.Scroll = 0
		return entries, s, Effect{}
	case KeyConfigure:
		return entries, s, Effect{Kind: EffectConfigure}
	case KeyGenerate:
		if !s.OkToGenerate {
			return entries, s, Effect{}
		}
		return entries, s, Effect{Kind: EffectGenerate}
	case KeyToggleAdvanced:
		s.Advanced = !s.Advanced
		s.Pos = layout.Position{}
		return entries, s.Relayout(entries), Effect{}
	}

	if s.Layout == nil {
		return entries, s, Effect{}
	}

	switch in.Key {
	case KeyUp:
		s.Pos.Row = max(0, s.Pos.Row-1)
	case KeyDown:
		s.Pos.Row = min(s.Layout.RowCount(s.Pos.Page)-1, s.Pos.Row+1)
		s.Pos.Row = max(0, s.Pos.Row)
	case KeyPageNext:
		s.Pos = s.Layout.Clamp(layout.Position{Page: s.Pos.Page + 1, Row: s.Pos.Row})
	case KeyPagePrev:
		s.Pos = s.Layout.Clamp(layout.Position{Page: s.Pos.Page - 1, Row: s.Pos.Row})
	case KeyEdit:
		if e := s.SelectedEntry(entries); e != nil {
			s.Mode = Editing
			s.EditBuffer = e.Value
		}
	case KeyDelete:
		return deleteSelected(entries, s)
	case KeySearch:
		s.Mode = Searching
		s.Search = s.Search.Begin(s.Pos)
	case KeySearchNext:
		if pos, ok := nextMatch(entries, s); ok {
			s.Pos = pos
		}
	}
	return entries, s, Effect{}
}

func dispatchEditing(entries domain.Entries, s Session, in Input) (domain.Entries, Session, Effect) {
	e := s.SelectedEntry(entries)
	if e == nil {
		s.Mode = Navigating
		s.EditBuffer = ""
		return entries, s, Effect{}
	}

	switch in.Key {
	case KeyConfirm:
		idx, _ := s.Selected()
		if e.Value != s.EditBuffer {
			entries = replaceValue(entries, idx, s.EditBuffer)
			s.OkToGenerate = false
		}
		s.Mode = Navigating
		s.EditBuffer = ""
		return entries, s.Relayout(entries), Effect{}
	case KeyCancel:
		s.Mode = Navigating
		s.EditBuffer = ""
		return entries, s, Effect{}
	}

	if e.Type == domain.TypeBool {
		if in.Rune != 0 {
			s.EditBuffer = domain.ToggleBool(s.EditBuffer)
		}
		return entries, s, Effect{}
	}

	switch {
	case in.Key == KeyBackspace:
		if runes := []rune(s.EditBuffer); len(runes) > 0 {
			s.EditBuffer = string(runes[:len(runes)-1])
		}
	case in.Rune != 0:
		s.EditBuffer += string(in.Rune)
	}
	return entries, s, Effect{}
}

func dispatchSearching(entries domain.Entries, s Session, in Input) Session {
	switch {
	case in.Key == KeyConfirm:
		s.Search = s.Search.Finish(true)
		s.Pos = s.Search.Position()
		s.Mode = Navigating
	case in.Key == KeyCancel:
		s.Search = s.Search.Finish(false)
		s.Pos = s.Search.Position()
		s.Mode = Navigating
	case in.Key == KeyBackspace:
		s.Search = s.Search.Backspace(s.Layout, entries)
	case in.Rune != 0:
		s.Search = s.Search.Append(in.Rune, s.Layout, entries)
	}
	return s
}

func dispatchPage(s Session, in Input, toggle Key) Session {
	switch in.Key {
	case toggle, KeyCancel, KeyConfirm, KeyQuit:
		s.Mode = Navigating
		s.Scroll = 0
	case KeyUp:
		s.Scroll = max(0, s.Scroll-1)
	case KeyDown:
		s.Scroll++
	case KeyPageNext:
		s.Scroll += max(1, s.Viewport.Height-1)
	case KeyPagePrev:
		s.Scroll = max(0, s.Scroll-max(1, s.Viewport.Height-1))
	}
	return s
}

func deleteSelected(entries domain.Entries, s Session) (domain.Entries, Session, Effect) {
	e := s.SelectedEntry(entries)
	if e == nil {
		return entries, s, Effect{}
	}
	out, err := entries.Remove(e.Name)
	if err != nil {
		return entries, s, Effect{}
	}
	s.OkToGenerate = false
	return out, s.Relayout(out), Effect{Kind: EffectPersist, Entry: e.Name}
}

func nextMatch(entries domain.Entries, s Session) (layout.Position, bool) {
	return search.Next(s.Layout, entries, s.Search.Previous, s.Pos)
}

func replaceValue(entries domain.Entries, idx int, value string) domain.Entries {
	out := make(domain.Entries, len(entries))
	copy(out, entries)
	e := *entries[idx]
	e.Value = value
	out[idx] = &e
	return out
}
