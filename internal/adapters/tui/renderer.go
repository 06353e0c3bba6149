package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer runs the form as a bubbletea program and implements
// ports.Renderer by forwarding span events to it.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a program for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// Send delivers msg to the program.
func (r *Renderer) Send(msg tea.Msg) {
	r.program.Send(msg)
}

// Model returns the model driven by the program.
func (r *Renderer) Model() *Model {
	return r.model
}

// OnStepStart forwards step start events.
func (r *Renderer) OnStepStart(spanID, _, name string, startTime time.Time) {
	r.program.Send(MsgStepStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnStepLog forwards step output.
func (r *Renderer) OnStepLog(spanID string, data []byte) {
	r.program.Send(MsgStepLog{SpanID: spanID, Data: data})
}

// OnProgress forwards progress reports.
func (r *Renderer) OnProgress(_ string, fraction float64, message string) {
	r.program.Send(MsgProgress{Fraction: fraction, Message: message})
}

// OnStepComplete forwards step completion events.
func (r *Renderer) OnStepComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgStepComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
