// Package layout computes the paginated field layout of the cache form.
//
// A layout pass is a pure function of the entry list, the visibility filter
// and the viewport. Every page starts with one header row; the remaining
// rows hold one visible entry each. Fields are kept in one flat slice in
// page, row, column order.
package layout

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// MinWidth is the narrowest viewport the form renders in.
	MinWidth = 65
	// MinHeight is the shortest viewport the form renders in.
	MinHeight = 6
	// IdealWidth is the width at which the marker column is shown.
	IdealWidth = 80
	// MaxWidth caps the line width on very wide terminals.
	MaxWidth = 512
	// HeaderRows is the number of header rows at the top of every page.
	HeaderRows = 1
	// MinValueWidth is the narrowest value column the label column may leave.
	MinValueWidth = 20
)

// Kind tags the variant of a field.
type Kind uint8

const (
	// Label is static text: an entry name or a page header.
	Label Kind = iota
	// BoolField is the value slot of a boolean entry.
	BoolField
	// TextField is the value slot of a string, path or uninitialized entry.
	TextField
	// NewMarker flags an entry introduced by the last configure pass.
	NewMarker
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Label:
		return "Label"
	case BoolField:
		return "BoolField"
	case TextField:
		return "TextField"
	case NewMarker:
		return "NewMarker"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Editable reports whether the field is a value slot.
func (k Kind) Editable() bool {
	return k == BoolField || k == TextField
}

// Filter selects which entries are shown.
type Filter uint8

const (
	// Normal hides advanced entries.
	Normal Filter = iota
	// Advanced shows every non-hidden entry.
	Advanced
)

// Viewport is the size of the render surface in cells.
type Viewport struct {
	Width  int
	Height int
}

// Position addresses an entry row: the page and the zero-based row among
// the page's entry rows (the header row is not counted).
type Position struct {
	Page int
	Row  int
}

// Field is one positioned cell range of the form.
type Field struct {
	Kind Kind
	Page int
	// Row is the screen row within the page; row 0 is the header.
	Row   int
	Col   int
	Width int
	Text  string
	// Entry is the index into the entry list, or -1 for static labels.
	Entry int
}

// Layout is the result of one layout pass.
type Layout struct {
	Fields      []Field
	PageCount   int
	RowsPerPage int
	// Width is the line width after clamping.
	Width      int
	LabelWidth int
	// ValueCol is the column where value fields start.
	ValueCol int
	// Compact drops the marker column on narrow viewports.
	Compact bool
	// Visible holds the indices of the shown entries in display order.
	Visible []int
}

// Compute lays out entries for the given filter and viewport.
// It returns domain.ErrViewportTooSmall below the minimum size.
func Compute(entries domain.Entries, filter Filter, vp Viewport) (*Layout, error) {
	if vp.Width < MinWidth || vp.Height < MinHeight {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrViewportTooSmall,
			fmt.Sprintf("need at least %dx%d", MinWidth, MinHeight)),
			"width", vp.Width), "height", vp.Height)
	}

	l := &Layout{
		Width:       min(vp.Width, MaxWidth),
		RowsPerPage: vp.Height - HeaderRows,
	}
	l.Compact = l.Width < IdealWidth

	for i, e := range entries {
		if e.Visible(filter == Advanced) {
			l.Visible = append(l.Visible, i)
		}
	}

	l.PageCount = max(1, ceilDiv(len(l.Visible), l.RowsPerPage))
	l.LabelWidth = labelWidth(entries, l.Visible, l.Width, l.Compact)
	l.ValueCol = l.LabelWidth + gap(l.Compact)

	l.Fields = make([]Field, 0, l.PageCount+3*len(l.Visible))
	for page := range l.PageCount {
		l.Fields = append(l.Fields, Field{
			Kind:  Label,
			Page:  page,
			Row:   0,
			Width: l.Width,
			Text:  header(page, l.PageCount, len(l.Visible)),
			Entry: -1,
		})
		for row, idx := range l.pageEntries(page) {
			l.Fields = append(l.Fields, l.entryFields(entries[idx], idx, page, row+HeaderRows)...)
		}
	}
	return l, nil
}

func (l *Layout) entryFields(e *domain.Entry, idx, page, row int) []Field {
	fields := []Field{{
		Kind:  Label,
		Page:  page,
		Row:   row,
		Width: l.LabelWidth,
		Text:  runewidth.Truncate(e.Name, l.LabelWidth, ""),
		Entry: idx,
	}}
	if e.New && !l.Compact {
		fields = append(fields, Field{
			Kind:  NewMarker,
			Page:  page,
			Row:   row,
			Col:   l.LabelWidth + 1,
			Width: 1,
			Text:  "*",
			Entry: idx,
		})
	}
	kind := TextField
	if e.Type == domain.TypeBool {
		kind = BoolField
	}
	return append(fields, Field{
		Kind:  kind,
		Page:  page,
		Row:   row,
		Col:   l.ValueCol,
		Width: l.Width - l.ValueCol,
		Text:  e.Value,
		Entry: idx,
	})
}

// Page returns the fields of one page.
func (l *Layout) Page(page int) []Field {
	var out []Field
	for _, f := range l.Fields {
		if f.Page == page {
			out = append(out, f)
		}
	}
	return out
}

// RowCount returns the number of entry rows on a page.
func (l *Layout) RowCount(page int) int {
	return len(l.pageEntries(page))
}

// EntryAt returns the entry index shown at pos.
func (l *Layout) EntryAt(pos Position) (int, bool) {
	rows := l.pageEntries(pos.Page)
	if pos.Row < 0 || pos.Row >= len(rows) {
		return -1, false
	}
	return rows[pos.Row], true
}

// PositionOf returns where an entry is shown.
func (l *Layout) PositionOf(entry int) (Position, bool) {
	for i, idx := range l.Visible {
		if idx == entry {
			return Position{Page: i / l.RowsPerPage, Row: i % l.RowsPerPage}, true
		}
	}
	return Position{}, false
}

// ValueField returns the editable field at pos.
func (l *Layout) ValueField(pos Position) (Field, bool) {
	idx, ok := l.EntryAt(pos)
	if !ok {
		return Field{}, false
	}
	for _, f := range l.Fields {
		if f.Entry == idx && f.Kind.Editable() {
			return f, true
		}
	}
	return Field{}, false
}

// Clamp moves pos onto the nearest existing entry row.
func (l *Layout) Clamp(pos Position) Position {
	pos.Page = clamp(pos.Page, 0, l.PageCount-1)
	pos.Row = clamp(pos.Row, 0, max(0, l.RowCount(pos.Page)-1))
	return pos
}

func (l *Layout) pageEntries(page int) []int {
	if page < 0 || page >= l.PageCount {
		return nil
	}
	start := page * l.RowsPerPage
	if start >= len(l.Visible) {
		return nil
	}
	end := min(start+l.RowsPerPage, len(l.Visible))
	return l.Visible[start:end]
}

func labelWidth(entries domain.Entries, visible []int, width int, compact bool) int {
	w := 1
	for _, idx := range visible {
		w = max(w, runewidth.StringWidth(entries[idx].Name))
	}
	return min(w, width-gap(compact)-MinValueWidth)
}

// gap is the space between the label and value columns, including the marker column.
func gap(compact bool) int {
	if compact {
		return 1
	}
	return 3
}

func header(page, pages, visible int) string {
	if visible == 0 {
		return "EMPTY CACHE"
	}
	return fmt.Sprintf("Page %d of %d", page+1, pages)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
