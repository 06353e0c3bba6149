package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Vterm is a virtual terminal holding the output of the running step.
// The view follows the bottom of the output.
type Vterm struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	width  int
	height int
	buf    bytes.Buffer
}

// NewVterm creates an empty Vterm.
func NewVterm() *Vterm {
	return &Vterm{vt: midterm.NewAutoResizingTerminal(), height: 1}
}

// Write implements io.Writer.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.Write(p)
}

// SetSize updates the visible area.
func (v *Vterm) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = max(1, width)
	v.height = max(1, height)
	v.vt.ResizeX(v.width)
}

// Reset discards all output.
func (v *Vterm) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.vt = midterm.NewAutoResizingTerminal()
	if v.width > 0 {
		v.vt.ResizeX(v.width)
	}
}

// UsedHeight returns the number of lines written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// View renders the last lines that fit the visible area.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	used := v.vt.UsedHeight()
	start := max(0, used-v.height)

	v.buf.Reset()
	for row := start; row < used; row++ {
		if row > start {
			_ = v.buf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&v.buf, row)
	}
	return v.buf.String()
}
