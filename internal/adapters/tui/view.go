package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/engine/form"
	"go.trai.ch/knob/internal/engine/layout"
	"go.trai.ch/knob/internal/ui/style"
)

const ellipsis = "…"

// View renders the model.
func (m *Model) View() string {
	if m.quitting || m.width == 0 {
		return ""
	}

	bodyHeight := max(0, m.height-chromeRows)
	var body string
	switch {
	case m.session.Busy:
		body = m.term.View()
	case m.session.Mode == form.ShowingHelp:
		body = m.pageView("Help", pageTitleStyle)
	case m.session.Mode == form.ShowingErrors:
		title := "Errors"
		titleStyle := pageTitleStyle
		if len(m.session.Errors) > 0 {
			title = fmt.Sprintf("%s %d errors", style.Cross, len(m.session.Errors))
			titleStyle = failureTitleStyle
		}
		body = m.pageView(title, titleStyle)
	case m.session.LayoutErr != nil:
		body = warningStyle.Render(fmt.Sprintf("%s Enlarge the terminal to at least %dx%d.",
			style.Warning, layout.MinWidth, layout.MinHeight+chromeRows))
	default:
		body = m.formView()
	}

	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	toolbar := m.help.View(m.keys.ForSession(m.session))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView(), toolbar)
}

func (m *Model) pageView(title string, titleStyle lipgloss.Style) string {
	return titleStyle.Render(title) + "\n" + m.page.View()
}

// formView renders the current page of the form row by row.
func (m *Model) formView() string {
	l := m.session.Layout
	if l == nil {
		return ""
	}

	cursor := m.session.Cursor()
	rows := make([][]layout.Field, l.RowsPerPage+layout.HeaderRows)
	for _, f := range l.Page(cursor.Page) {
		if f.Row < len(rows) {
			rows[f.Row] = append(rows[f.Row], f)
		}
	}

	lines := make([]string, 0, len(rows))
	for row, fields := range rows {
		if len(fields) == 0 {
			continue
		}
		if row < layout.HeaderRows {
			lines = append(lines, m.headerLine(fields[0]))
			continue
		}
		selected := row-layout.HeaderRows == cursor.Row
		lines = append(lines, m.entryLine(fields, selected))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) headerLine(f layout.Field) string {
	text := f.Text
	if m.pager.TotalPages > 1 {
		text += "  " + m.pager.View()
	}
	if m.session.Advanced {
		text += "  [advanced]"
	}
	return headerStyle.Render(fit(text, f.Width))
}

func (m *Model) entryLine(fields []layout.Field, selected bool) string {
	var b strings.Builder
	col := 0
	for _, f := range fields {
		if f.Col > col {
			b.WriteString(strings.Repeat(" ", f.Col-col))
			col = f.Col
		}

		switch {
		case f.Kind == layout.Label && selected:
			b.WriteString(selectedLabelStyle.Render(fit(f.Text, f.Width)))
		case f.Kind == layout.Label:
			b.WriteString(labelStyle.Render(fit(f.Text, f.Width)))
		case f.Kind == layout.NewMarker:
			b.WriteString(newMarkerStyle.Render(fit(f.Text, f.Width)))
		case selected && m.session.Mode == form.Editing:
			b.WriteString(editingValueStyle.Render(m.editText(f)))
		case selected:
			b.WriteString(selectedValueStyle.Render(fit(f.Text, f.Width)))
		default:
			b.WriteString(valueStyle.Render(fit(f.Text, f.Width)))
		}
		col += f.Width
	}
	return b.String()
}

// editText renders the edit buffer. Text values show a cursor and keep the
// end of the buffer in view.
func (m *Model) editText(f layout.Field) string {
	if f.Kind == layout.BoolField {
		return fit(m.session.EditBuffer, f.Width)
	}
	return runewidth.FillRight(tail(m.session.EditBuffer+"_", f.Width), f.Width)
}

func (m *Model) statusView() string {
	var line string
	switch {
	case m.session.Busy:
		line = fmt.Sprintf("%s %s %s %s", m.spinner.View(), m.running,
			m.progress.ViewAs(m.session.Progress), m.session.ProgressMsg)
		return runewidth.Truncate(line, max(0, m.width), ellipsis)
	case m.session.Mode == form.Searching:
		line = "Search: " + m.session.Search.Query + "_"
		return searchStyle.Render(runewidth.Truncate(line, max(0, m.width), ellipsis))
	case m.session.LayoutErr != nil:
		return ""
	}

	if e := m.session.SelectedEntry(m.entries); e != nil {
		line = entryStatus(e)
	} else {
		line = "No entries. Press c to configure."
	}
	if m.session.OkToGenerate {
		line = style.Check + " " + line
	}
	return statusStyle.Render(runewidth.Truncate(line, max(0, m.width), ellipsis))
}

func entryStatus(e *domain.Entry) string {
	helpText, _, _ := strings.Cut(e.Help, "\n")
	if helpText == "" {
		return fmt.Sprintf("%s (%s)", e.Name, e.Type)
	}
	return fmt.Sprintf("%s (%s): %s", e.Name, e.Type, helpText)
}

// fit truncates s to width cells and pads it to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

// tail keeps the last cells of s that fit in width, marking the cut.
func tail(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	used := runewidth.StringWidth(ellipsis)
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if used+w > width {
			break
		}
		used += w
		i--
	}
	return ellipsis + string(runes[i:])
}
