package tui

import (
	"time"

	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/engine/workflow"
)

// MsgStepStart is sent when a workflow phase starts.
type MsgStepStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgStepLog carries a chunk of step output.
type MsgStepLog struct {
	SpanID string
	Data   []byte
}

// MsgProgress carries a progress report of the running step.
type MsgProgress struct {
	Fraction float64
	Message  string
}

// MsgStepComplete is sent when a workflow phase ends.
type MsgStepComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgRunFinished is sent when a configure or generate run returned.
type MsgRunFinished struct {
	Kind   domain.StepKind
	Result workflow.Result
}

// MsgPersisted is sent after the entry list was committed following a deletion.
type MsgPersisted struct {
	Entry string
	Err   error
}

// MsgCacheChanged is sent when the cache file was rewritten outside the form.
type MsgCacheChanged struct{}

// MsgCacheReloaded carries the cache content read after MsgCacheChanged.
type MsgCacheReloaded struct {
	Entries domain.Entries
	Err     error
}
