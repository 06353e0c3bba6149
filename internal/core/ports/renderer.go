package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for non-interactive output rendering.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnStepStart is called when a workflow phase begins.
	// spanID: unique identifier for this phase
	// parentID: spanID of the enclosing phase (empty if root)
	// name: human-readable phase name
	OnStepStart(spanID, parentID, name string, startTime time.Time)

	// OnStepLog is called when a phase emits output.
	// data may contain partial lines or ANSI sequences.
	OnStepLog(spanID string, data []byte)

	// OnProgress is called when the running step reports progress.
	OnProgress(spanID string, fraction float64, message string)

	// OnStepComplete is called when a phase finishes.
	// err is nil if successful.
	OnStepComplete(spanID string, endTime time.Time, err error)
}
