// Package output builds termenv outputs with the color profile knob uses
// for a given destination.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile to render with.
// NO_COLOR disables colors. CI logs get plain ANSI colors; interactive
// terminals are detected.
func Profile(ci bool) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case ci:
		return termenv.ANSI
	default:
		return termenv.EnvColorProfile()
	}
}

// New creates a termenv.Output for w. A nil writer means stderr.
func New(w io.Writer, ci bool) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w,
		termenv.WithProfile(Profile(ci)),
		termenv.WithTTY(true),
	)
}
