package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrDuplicateEntry is returned when adding an entry whose name is already in the list.
	ErrDuplicateEntry = zerr.New("entry already exists")

	// ErrEntryNotFound is returned when an entry name is not in the list.
	ErrEntryNotFound = zerr.New("entry not found")

	// ErrInvalidEntryName is returned when an entry name is empty or contains reserved characters.
	ErrInvalidEntryName = zerr.New("invalid entry name")

	// ErrInvalidEntryType is returned when a persisted type token is unknown.
	ErrInvalidEntryType = zerr.New("invalid entry type")

	// ErrInvalidValue is returned when a value cannot be normalized for its declared type.
	ErrInvalidValue = zerr.New("invalid value for entry type")

	// ErrCacheRead is returned when the cache store cannot be read.
	ErrCacheRead = zerr.New("failed to read cache")

	// ErrCacheParse is returned when the cache store content is malformed.
	ErrCacheParse = zerr.New("failed to parse cache")

	// ErrCacheWrite is returned when the cache store cannot be written.
	ErrCacheWrite = zerr.New("failed to write cache")

	// ErrConfigRead is returned when the project config file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when the project config file cannot be parsed.
	ErrConfigParse = zerr.New("failed to parse config file")

	// ErrNoCommand is returned when a workflow step has no command configured.
	ErrNoCommand = zerr.New("no command configured for step")

	// ErrStepStartFailed is returned when the external step process cannot be started.
	ErrStepStartFailed = zerr.New("failed to start step")

	// ErrStepFailed is returned when the external step exits with a nonzero status.
	ErrStepFailed = zerr.New("step failed")

	// ErrReportWriteFailed is returned when the run report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write report")

	// ErrViewportTooSmall is returned when the viewport is below the minimum form size.
	ErrViewportTooSmall = zerr.New("viewport too small")

	// ErrNotATerminal is returned when the interactive form is started without a terminal.
	ErrNotATerminal = zerr.New("interactive mode requires a terminal")

	// ErrNotConverged is returned when configure passes keep discovering new entries.
	ErrNotConverged = zerr.New("configure did not converge")
)

// IsCacheError reports whether err is one of the cache store error kinds.
func IsCacheError(err error) bool {
	return errors.Is(err, ErrCacheRead) ||
		errors.Is(err, ErrCacheParse) ||
		errors.Is(err, ErrCacheWrite) ||
		errors.Is(err, ErrInvalidValue)
}

// WrapKind wraps cause so that it matches kind with errors.Is while keeping
// the cause in the chain. The message reads "kind: cause".
func WrapKind(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
