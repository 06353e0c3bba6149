package form

import (
	"fmt"
	"strings"

	"go.trai.ch/knob/internal/core/domain"
)

// DefaultHelp is the common help shown below the current entry on the help page.
const DefaultHelp = `knob edits the cache of a build tree and drives the configure and
generate steps of the project.

The form lists one entry per row: the entry name on the left and its
current value on the right. Entries marked with * were introduced by the
last configure pass and should be reviewed before generating.

Navigation
  up/down, k/j     move between entries on the current page
  pgup/pgdown      previous or next page
  enter            edit the selected entry; booleans toggle with any key
  esc              cancel the current edit or search
  d                delete the selected entry from the cache
  /                search entry names and values; enter accepts
  n                jump to the next match of the last search
  t                toggle advanced mode

Workflow
  c                configure: write the cache and run the configure step
  g                generate: run the generate step and exit
                   (available once a configure pass introduced no new entries)
  e                show the errors of the last run
  h, ?             show this help
  q                quit without generating

Changes are written to the cache only when configuring, generating or
deleting an entry.`

// HelpPage renders the help page for the selected entry followed by the common help.
func HelpPage(entries domain.Entries, s Session) string {
	var b strings.Builder
	if e := s.SelectedEntry(entries); e != nil {
		fmt.Fprintf(&b, "Current option: %s\n", e.Name)
		help := e.Help
		if help == "" {
			help = "(none)"
		}
		fmt.Fprintf(&b, "Help string for this option: %s\n", help)
		fmt.Fprintf(&b, "Type: %s\n", e.Type)
		if e.Advanced {
			b.WriteString("Advanced option\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(s.HelpText)
	return b.String()
}

// ErrorPage renders the errors of the last run, one per paragraph.
func ErrorPage(s Session) string {
	if len(s.Errors) == 0 {
		return "No errors."
	}
	return strings.Join(s.Errors, "\n\n")
}
