package domain

import "time"

// Report is the record of one external step run handed to the report writer.
type Report struct {
	RunID   string
	Kind    StepKind
	Command string
	Start   time.Time
	End     time.Time
	Status  int
	Output  string
}

// ElapsedMinutes returns the run duration in minutes truncated to one decimal.
func (r Report) ElapsedMinutes() float64 {
	seconds := r.End.Sub(r.Start).Seconds()
	if seconds < 0 {
		return 0
	}
	return float64(int(seconds/6)) / 10.0
}
