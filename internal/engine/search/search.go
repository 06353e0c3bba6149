// Package search implements incremental search over a form layout.
package search

import (
	"strings"

	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/engine/layout"
)

// State is the incremental search state of one form session.
// All operations return a new State and leave the receiver unchanged.
type State struct {
	Active bool
	// Query is the text typed so far.
	Query string
	// Previous is the last accepted query, used by Next.
	Previous string
	// Origin is the position search started from.
	Origin layout.Position
	// Current is the position of the last match, or Origin.
	Current layout.Position
}

// Begin starts a search at pos.
func (s State) Begin(pos layout.Position) State {
	return State{
		Active:   true,
		Previous: s.Previous,
		Origin:   pos,
		Current:  pos,
	}
}

// Append adds r to the query and jumps to the first match.
func (s State) Append(r rune, l *layout.Layout, entries domain.Entries) State {
	if !s.Active {
		return s
	}
	s.Query += string(r)
	return s.rescan(l, entries)
}

// Backspace removes the last rune of the query and rescans.
func (s State) Backspace(l *layout.Layout, entries domain.Entries) State {
	if !s.Active || s.Query == "" {
		return s
	}
	runes := []rune(s.Query)
	s.Query = string(runes[:len(runes)-1])
	if s.Query == "" {
		s.Current = s.Origin
		return s
	}
	return s.rescan(l, entries)
}

// Finish leaves search mode. Accepting keeps the jumped-to position and
// remembers the query for Next; cancelling restores the starting position.
func (s State) Finish(accept bool) State {
	out := State{Previous: s.Previous}
	if accept {
		out.Current = s.Current
		if s.Query != "" {
			out.Previous = s.Query
		}
	} else {
		out.Current = s.Origin
	}
	out.Origin = out.Current
	return out
}

// Position returns where the cursor should be while searching.
func (s State) Position() layout.Position {
	return s.Current
}

func (s State) rescan(l *layout.Layout, entries domain.Entries) State {
	if pos, ok := FirstMatch(l, entries, s.Query); ok {
		s.Current = pos
	}
	return s
}

// FirstMatch scans from page 0 for the first row whose label or value
// contains query. Matching is case-sensitive; an empty query never matches.
func FirstMatch(l *layout.Layout, entries domain.Entries, query string) (layout.Position, bool) {
	if l == nil || query == "" {
		return layout.Position{}, false
	}
	for _, idx := range l.Visible {
		if matches(entries[idx], query) {
			return l.PositionOf(idx)
		}
	}
	return layout.Position{}, false
}

// Next finds the first match after from in page order, wrapping around to
// the top. It returns false when nothing matches.
func Next(l *layout.Layout, entries domain.Entries, query string, from layout.Position) (layout.Position, bool) {
	if l == nil || query == "" || len(l.Visible) == 0 {
		return layout.Position{}, false
	}
	start := 0
	if idx, ok := l.EntryAt(from); ok {
		for i, v := range l.Visible {
			if v == idx {
				start = i + 1
				break
			}
		}
	}
	n := len(l.Visible)
	for k := range n {
		idx := l.Visible[(start+k)%n]
		if matches(entries[idx], query) {
			return l.PositionOf(idx)
		}
	}
	return layout.Position{}, false
}

func matches(e *domain.Entry, query string) bool {
	return strings.Contains(e.Name, query) || strings.Contains(e.Value, query)
}
