package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/knob/internal/ui/style"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(style.Text).
			Background(style.Accent)

	labelStyle = lipgloss.NewStyle().
			Foreground(style.Text)

	selectedLabelStyle = lipgloss.NewStyle().
				Foreground(style.Accent).
				Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	selectedValueStyle = lipgloss.NewStyle().
				Foreground(style.Ink).
				Background(style.Paper)

	editingValueStyle = lipgloss.NewStyle().
				Foreground(style.Ink).
				Background(style.Yellow)

	newMarkerStyle = lipgloss.NewStyle().
			Foreground(style.Yellow).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	searchStyle = lipgloss.NewStyle().
			Foreground(style.Accent)

	pageTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.Text)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.Text)

	warningStyle = lipgloss.NewStyle().
			Foreground(style.Yellow)
)
