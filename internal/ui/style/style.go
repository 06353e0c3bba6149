// Package style holds the colors and icons shared by the form, the linear
// renderer and the logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Text   = lipgloss.Color("#FFFFFF")
	Ink    = lipgloss.Color("#0B0F19")
	Paper  = lipgloss.Color("#F6F7FB")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check    = "✓"
	Cross    = "✗"
	Warning  = "!"
	Arrow    = "→"
	NewEntry = "*"
	Running  = "●"
	Pending  = "○"
)
