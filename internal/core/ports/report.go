package ports

import "go.trai.ch/knob/internal/core/domain"

// ReportWriter persists the record of a step run.
//
//go:generate mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks
type ReportWriter interface {
	// Write persists the report. Writing is best effort for the caller:
	// a failure is surfaced as an error but never undoes the run.
	Write(report domain.Report) error
}
