// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/knob/internal/core/domain"
)

// ProgressFunc receives progress reports from a running step.
// fraction is in [0, 1]; a negative fraction means the step reported a message without a percentage.
type ProgressFunc func(fraction float64, message string)

// StepRunner defines the interface for running external workflow steps.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type StepRunner interface {
	// Run executes the step and blocks until it exits.
	// Output is streamed to output while it is produced and also returned in StepResult.Output.
	//
	// A nonzero exit status is reported through StepResult.Status with a nil error.
	// An error is returned only when the step could not be started.
	Run(ctx context.Context, step domain.Step, output io.Writer, progress ProgressFunc) (domain.StepResult, error)
}
