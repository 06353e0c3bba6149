package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/knob/internal/engine/form"
)

// KeyMap binds physical keys to form inputs. It implements help.KeyMap for
// the toolbar.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PageNext       key.Binding
	PagePrev       key.Binding
	ToggleAdvanced key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Search         key.Binding
	SearchNext     key.Binding
	Configure      key.Binding
	Generate       key.Binding
	Help           key.Binding
	Errors         key.Binding
	Quit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	Backspace      key.Binding

	mode form.Mode
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageNext:       key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "next page")),
		PagePrev:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "prev page")),
		ToggleAdvanced: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "advanced")),
		Edit:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		SearchNext:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		Configure:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "configure")),
		Generate:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		Help:           key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Errors:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "errors")),
		Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Confirm:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete char")),
	}
}

// ForSession returns a copy of the keymap adjusted to what the session
// currently accepts.
func (k KeyMap) ForSession(s form.Session) KeyMap {
	k.mode = s.Mode
	k.Generate.SetEnabled(s.OkToGenerate && !s.Busy)
	k.Configure.SetEnabled(!s.Busy)
	return k
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	switch k.mode {
	case form.Editing, form.Searching:
		return []key.Binding{k.Confirm, k.Cancel, k.Backspace}
	case form.ShowingHelp:
		return []key.Binding{k.Up, k.Down, k.Help}
	case form.ShowingErrors:
		return []key.Binding{k.Up, k.Down, k.Errors}
	default:
		return []key.Binding{k.Edit, k.Configure, k.Generate, k.Search, k.Help, k.Quit}
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageNext, k.PagePrev},
		{k.Edit, k.Delete, k.ToggleAdvanced},
		{k.Search, k.SearchNext},
		{k.Configure, k.Generate, k.Errors, k.Help, k.Quit},
	}
}

// Decode translates a key press into a form input for the given mode.
// Printable keys always carry their rune so text modes can insert them.
func (k KeyMap) Decode(msg tea.KeyMsg, mode form.Mode) form.Input {
	in := form.Input{}
	if (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && len(msg.Runes) == 1 && !msg.Paste {
		in.Rune = msg.Runes[0]
	}

	text := mode == form.Editing || mode == form.Searching
	switch {
	case key.Matches(msg, k.Cancel):
		in.Key = form.KeyCancel
	case key.Matches(msg, k.Backspace):
		in.Key = form.KeyBackspace
	case text && key.Matches(msg, k.Confirm):
		in.Key = form.KeyConfirm
	case text:
		// Everything else is text.
	case key.Matches(msg, k.Edit):
		in.Key = form.KeyEdit
		if mode != form.Navigating {
			in.Key = form.KeyConfirm
		}
	case key.Matches(msg, k.Up):
		in.Key = form.KeyUp
	case key.Matches(msg, k.Down):
		in.Key = form.KeyDown
	case key.Matches(msg, k.PageNext):
		in.Key = form.KeyPageNext
	case key.Matches(msg, k.PagePrev):
		in.Key = form.KeyPagePrev
	case key.Matches(msg, k.ToggleAdvanced):
		in.Key = form.KeyToggleAdvanced
	case key.Matches(msg, k.Delete):
		in.Key = form.KeyDelete
	case key.Matches(msg, k.Search):
		in.Key = form.KeySearch
	case key.Matches(msg, k.SearchNext):
		in.Key = form.KeySearchNext
	case key.Matches(msg, k.Configure):
		in.Key = form.KeyConfigure
	case key.Matches(msg, k.Generate):
		in.Key = form.KeyGenerate
	case key.Matches(msg, k.Help):
		in.Key = form.KeyHelp
	case key.Matches(msg, k.Errors):
		in.Key = form.KeyErrors
	case key.Matches(msg, k.Quit):
		in.Key = form.KeyQuit
	}
	return in
}
